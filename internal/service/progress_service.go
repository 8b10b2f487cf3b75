package service

import (
	"errors"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	LessonRepo   *repository.LessonRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, lessonRepo *repository.LessonRepository) *ProgressService {
	return &ProgressService{ProgressRepo: progressRepo, LessonRepo: lessonRepo}
}

// CompleteLesson records that the student finished the lesson. Completing an
// already completed lesson is a no-op.
func (s *ProgressService) CompleteLesson(userID uint, lessonID string) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.ProgressRepo.MarkCompleted(&model.LessonCompletion{
		UserID:      userID,
		CourseID:    lesson.CourseID,
		LessonID:    lessonID,
		CompletedAt: time.Now(),
	})
}

// GetCourseProgress derives the completion summary for one course.
func (s *ProgressService) GetCourseProgress(userID uint, courseID string) (*model.CourseProgress, error) {
	total, err := s.LessonRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.ProgressRepo.CountCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}
	progress := &model.CourseProgress{
		CourseID:         courseID,
		TotalLessons:     int(total),
		CompletedLessons: int(completed),
		Percent:          roundPercent(int(completed), int(total)),
	}
	if completed > 0 {
		last, err := s.ProgressRepo.LastActivity(userID, courseID)
		if err == nil {
			progress.LastActivityAt = &last.CompletedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return progress, nil
}

// ListCompletedLessons returns the lesson ids the student has finished.
func (s *ProgressService) ListCompletedLessons(userID uint, courseID string) ([]string, error) {
	completions, err := s.ProgressRepo.ListCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(completions))
	for _, c := range completions {
		ids = append(ids, c.LessonID)
	}
	return ids, nil
}
