package model

// swagger:model Course
type Course struct {
	UUIDBase
	Title        string   `gorm:"size:255;not null" json:"title"`
	Description  string   `gorm:"type:text" json:"description"`
	Category     string   `gorm:"size:100;index" json:"category"`
	Level        string   `gorm:"size:50" json:"level"` // beginner, intermediate, advanced
	Price        float64  `gorm:"default:0" json:"price"`
	Thumbnail    string   `gorm:"size:255" json:"thumbnail"`
	InstructorID uint     `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Instructor   *User    `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	IsPublished  bool     `gorm:"default:false" json:"isPublished"`
	Lessons      []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
