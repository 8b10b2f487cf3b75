package repository

import (
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{DB: db}
}

func (r *ApplicationRepository) Create(app *model.InstructorApplication) error {
	return r.DB.Create(app).Error
}

func (r *ApplicationRepository) FindByID(id string) (*model.InstructorApplication, error) {
	var a model.InstructorApplication
	err := r.DB.Preload("User").First(&a, "id = ?", id).Error
	return &a, err
}

func (r *ApplicationRepository) FindPendingByUser(userID uint) (*model.InstructorApplication, error) {
	var a model.InstructorApplication
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.ApplicationPending).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepository) List(status string, page, limit int) ([]model.InstructorApplication, int64, error) {
	var as []model.InstructorApplication
	var total int64
	query := r.DB.Model(&model.InstructorApplication{})
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *ApplicationRepository) Update(app *model.InstructorApplication) error {
	return r.DB.Save(app).Error
}
