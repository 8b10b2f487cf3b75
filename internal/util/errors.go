package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrLessonHasNoQuiz      = errors.New("lesson has no quiz")
	ErrQuizNotGradeable     = errors.New("quiz is incomplete and cannot be taken")
	ErrMaxAttemptsReached   = errors.New("maximum attempts reached for this quiz")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrApplicationReviewed  = errors.New("application already reviewed")
	ErrApplicationDuplicate = errors.New("a pending application already exists")
)
