package model

import "time"

// LessonCompletion marks one lesson finished by one student.
type LessonCompletion struct {
	UUIDBase
	UserID      uint      `gorm:"index:idx_lesson_completion,unique;type:bigint unsigned;not null" json:"userId"`
	CourseID    string    `gorm:"index;type:varchar(36);not null" json:"courseId"`
	LessonID    string    `gorm:"index:idx_lesson_completion,unique;type:varchar(36);not null" json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

// CourseProgress is the derived per-course completion summary.
// swagger:model CourseProgress
type CourseProgress struct {
	CourseID         string     `json:"courseId"`
	TotalLessons     int        `json:"totalLessons"`
	CompletedLessons int        `json:"completedLessons"`
	Percent          int        `json:"percent"`
	LastActivityAt   *time.Time `json:"lastActivityAt,omitempty"`
}
