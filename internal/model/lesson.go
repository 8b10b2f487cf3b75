package model

// swagger:model Lesson
type Lesson struct {
	UUIDBase
	CourseID      string `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Content       string `gorm:"type:longtext" json:"content"` // markdown body
	VideoURL      string `gorm:"size:255" json:"videoUrl"`
	VideoDuration int    `gorm:"default:0" json:"videoDuration"` // seconds
	Order         int    `gorm:"default:0" json:"order"`
	IsPublished   bool   `gorm:"default:false" json:"isPublished"`
	Quiz          *Quiz  `gorm:"type:json;serializer:json" json:"quiz,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
