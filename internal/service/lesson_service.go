package service

import (
	"errors"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
}

func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository) *LessonService {
	return &LessonService{LessonRepo: lessonRepo, CourseRepo: courseRepo}
}

type LessonInput struct {
	Title         string `json:"title" binding:"required"`
	Content       string `json:"content"`
	VideoURL      string `json:"videoUrl"`
	VideoDuration int    `json:"videoDuration"`
	Order         int    `json:"order"`
}

func (s *LessonService) CreateLesson(courseID string, actorID uint, isAdmin bool, input LessonInput) (*model.Lesson, error) {
	if err := s.checkCourseOwner(courseID, actorID, isAdmin); err != nil {
		return nil, err
	}
	order := input.Order
	if order <= 0 {
		n, err := s.LessonRepo.CountByCourse(courseID)
		if err != nil {
			return nil, err
		}
		order = int(n) + 1
	}
	lesson := &model.Lesson{
		CourseID:      courseID,
		Title:         input.Title,
		Content:       input.Content,
		VideoURL:      input.VideoURL,
		VideoDuration: input.VideoDuration,
		Order:         order,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// GetLesson returns the lesson. For students the embedded quiz is sanitized
// so correct answers and explanations never leave the server.
func (s *LessonService) GetLesson(id string, forStudent bool) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if forStudent && lesson.Quiz != nil {
		sanitized := lesson.Quiz.Sanitized()
		lesson.Quiz = &sanitized
	}
	return lesson, nil
}

func (s *LessonService) ListLessons(courseID string) ([]model.Lesson, error) {
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *LessonService) UpdateLesson(id string, actorID uint, isAdmin bool, input LessonInput) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}
	if input.VideoURL != "" {
		lesson.VideoURL = input.VideoURL
	}
	if input.VideoDuration > 0 {
		lesson.VideoDuration = input.VideoDuration
	}
	if input.Order > 0 {
		lesson.Order = input.Order
	}
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLessonQuiz replaces the lesson's quiz definition. Drafts with
// validation problems are accepted; publishing the lesson is what demands a
// gradeable quiz.
func (s *LessonService) UpdateLessonQuiz(id string, actorID uint, isAdmin bool, quiz *model.Quiz) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if lesson.IsPublished && quiz != nil {
		if err := quiz.Validate(); err != nil {
			return nil, err
		}
	}
	lesson.Quiz = quiz
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// PublishLesson flips visibility. A lesson carrying an incomplete quiz
// cannot be published.
func (s *LessonService) PublishLesson(id string, actorID uint, isAdmin bool, published bool) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if published && lesson.Quiz != nil && !lesson.Quiz.IsGradeable() {
		return nil, util.ErrQuizNotGradeable
	}
	lesson.IsPublished = published
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) DeleteLesson(id string, actorID uint, isAdmin bool) error {
	if _, err := s.ownedLesson(id, actorID, isAdmin); err != nil {
		return err
	}
	return s.LessonRepo.Delete(id)
}

// QuizForTaking returns the lesson's quiz ready for an attempt: it must
// exist and be gradeable.
func (s *LessonService) QuizForTaking(lessonID string) (*model.Quiz, error) {
	lesson, err := s.GetLesson(lessonID, false)
	if err != nil {
		return nil, err
	}
	if lesson.Quiz == nil {
		return nil, util.ErrLessonHasNoQuiz
	}
	if !lesson.Quiz.IsGradeable() {
		return nil, util.ErrQuizNotGradeable
	}
	return lesson.Quiz, nil
}

func (s *LessonService) ownedLesson(id string, actorID uint, isAdmin bool) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if err := s.checkCourseOwner(lesson.CourseID, actorID, isAdmin); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) checkCourseOwner(courseID string, actorID uint, isAdmin bool) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if !isAdmin && course.InstructorID != actorID {
		return util.ErrPermissionDenied
	}
	return nil
}
