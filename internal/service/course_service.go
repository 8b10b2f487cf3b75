package service

import (
	"errors"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, LessonRepo: lessonRepo}
}

type CourseInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Level       string  `json:"level"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
}

func (s *CourseService) CreateCourse(instructorID uint, input CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Level:        input.Level,
		Price:        input.Price,
		Thumbnail:    input.Thumbnail,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourse(id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithLessons(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(category string, page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.ListPublished(category, page, limit)
}

func (s *CourseService) ListInstructorCourses(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

// UpdateCourse applies partial edits; only the owning instructor (or an
// admin) may modify a course.
func (s *CourseService) UpdateCourse(id string, actorID uint, isAdmin bool, input CourseInput) (*model.Course, error) {
	course, err := s.ownedCourse(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Price >= 0 {
		course.Price = input.Price
	}
	if input.Thumbnail != "" {
		course.Thumbnail = input.Thumbnail
	}
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) PublishCourse(id string, actorID uint, isAdmin bool, published bool) (*model.Course, error) {
	course, err := s.ownedCourse(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	course.IsPublished = published
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id string, actorID uint, isAdmin bool) error {
	if _, err := s.ownedCourse(id, actorID, isAdmin); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

func (s *CourseService) ownedCourse(id string, actorID uint, isAdmin bool) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !isAdmin && course.InstructorID != actorID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}
