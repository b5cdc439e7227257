package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseStatus is the lifecycle state of a course
type CourseStatus string

const (
	CourseStatusDraft         CourseStatus = "draft"
	CourseStatusPendingReview CourseStatus = "pending_review"
	CourseStatusPublished     CourseStatus = "published"
)

type Course struct {
	gorm.Model
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description" gorm:"type:text"`
	Subject     string       `json:"subject" gorm:"index"`
	Level       string       `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced
	CreatorID   uint         `json:"creator_id" gorm:"index;not null"`
	Status      CourseStatus `json:"status" gorm:"type:varchar(30);default:'draft';index"`
	PublishedAt *time.Time   `json:"published_at"`

	Creator User `json:"-" gorm:"foreignKey:CreatorID"`
}

// Chapter groups lessons inside a course in reading order
type Chapter struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Title    string `json:"title" gorm:"not null"`
	Sequence int    `json:"sequence" gorm:"default:0"`
}
