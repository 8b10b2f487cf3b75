package model

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// swagger:model InstructorApplication
type InstructorApplication struct {
	UUIDBase
	UserID     uint              `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	User       *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FullName   string            `gorm:"size:100;not null" json:"fullName"`
	Expertise  string            `gorm:"size:255" json:"expertise"`
	Experience string            `gorm:"type:text" json:"experience"`
	Motivation string            `gorm:"type:text" json:"motivation"`
	Status     ApplicationStatus `gorm:"size:20;default:'pending';index" json:"status"`
	ReviewedBy uint              `gorm:"type:bigint unsigned" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time        `json:"reviewedAt,omitempty"`
	Feedback   string            `gorm:"type:text" json:"feedback"`
}

func (InstructorApplication) TableName() string {
	return "instructor_applications"
}
