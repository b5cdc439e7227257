package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued at most once per (student, course) on completion
type Certificate struct {
	gorm.Model
	StudentID    uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_certificate_student_course"`
	CourseID     uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_student_course"`
	Course       Course    `json:"course" gorm:"foreignKey:CourseID"`
	SerialNumber string    `json:"serial_number" gorm:"unique;not null"`
	IssuedAt     time.Time `json:"issued_at"`
}
