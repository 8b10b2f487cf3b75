package service

import (
	"errors"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InstructorService struct {
	ApplicationRepo *repository.ApplicationRepository
	UserRepo        *repository.UserRepository
}

func NewInstructorService(appRepo *repository.ApplicationRepository, userRepo *repository.UserRepository) *InstructorService {
	return &InstructorService{ApplicationRepo: appRepo, UserRepo: userRepo}
}

type ApplicationInput struct {
	FullName   string `json:"fullName" binding:"required"`
	Expertise  string `json:"expertise" binding:"required"`
	Experience string `json:"experience"`
	Motivation string `json:"motivation" binding:"required"`
}

// Apply files an instructor application for the user. Only one pending
// application per user is allowed.
func (s *InstructorService) Apply(userID uint, input ApplicationInput) (*model.InstructorApplication, error) {
	if _, err := s.ApplicationRepo.FindPendingByUser(userID); err == nil {
		return nil, util.ErrApplicationDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	app := &model.InstructorApplication{
		UserID:     userID,
		FullName:   input.FullName,
		Expertise:  input.Expertise,
		Experience: input.Experience,
		Motivation: input.Motivation,
		Status:     model.ApplicationPending,
	}
	if err := s.ApplicationRepo.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *InstructorService) ListApplications(status string, page, limit int) ([]model.InstructorApplication, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.ApplicationRepo.List(status, page, limit)
}

// Review resolves a pending application. Approval promotes the applicant to
// the instructor role.
func (s *InstructorService) Review(applicationID string, reviewerID uint, approve bool, feedback string) (*model.InstructorApplication, error) {
	app, err := s.ApplicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Status != model.ApplicationPending {
		return nil, util.ErrApplicationReviewed
	}

	now := time.Now()
	app.ReviewedBy = reviewerID
	app.ReviewedAt = &now
	app.Feedback = feedback
	if approve {
		app.Status = model.ApplicationApproved
	} else {
		app.Status = model.ApplicationRejected
	}
	if err := s.ApplicationRepo.Update(app); err != nil {
		return nil, err
	}

	if approve {
		if err := s.UserRepo.UpdateRole(app.UserID, model.Instructor); err != nil {
			return nil, err
		}
		logger.Log.Info("instructor application approved",
			zap.String("applicationId", app.ID),
			zap.Uint("userId", app.UserID),
			zap.Uint("reviewerId", reviewerID))
	}
	return app, nil
}
