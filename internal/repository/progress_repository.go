package repository

import (
	"errors"

	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkCompleted records a lesson completion once; repeats are no-ops.
func (r *ProgressRepository) MarkCompleted(completion *model.LessonCompletion) error {
	var existing model.LessonCompletion
	err := r.DB.Where("user_id = ? AND lesson_id = ?", completion.UserID, completion.LessonID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.DB.Create(completion).Error
}

func (r *ProgressRepository) CountCompleted(userID uint, courseID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&n).Error
	return n, err
}

func (r *ProgressRepository) LastActivity(userID uint, courseID string) (*model.LessonCompletion, error) {
	var c model.LessonCompletion
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at desc").First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ProgressRepository) ListCompleted(userID uint, courseID string) ([]model.LessonCompletion, error) {
	var cs []model.LessonCompletion
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at asc").Find(&cs).Error
	return cs, err
}
