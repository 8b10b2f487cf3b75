package repository

import (
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var l model.Lesson
	err := r.DB.First(&l, "id = ?", id).Error
	return &l, err
}

func (r *LessonRepository) ListByCourse(courseID string) ([]model.Lesson, error) {
	var ls []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc").Find(&ls).Error
	return ls, err
}

func (r *LessonRepository) CountByCourse(courseID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id string) error {
	return r.DB.Delete(&model.Lesson{}, "id = ?", id).Error
}
