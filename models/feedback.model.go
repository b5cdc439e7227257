package models

import "gorm.io/gorm"

// LessonFeedback is a 1-5 rating a student leaves on an approved lesson
type LessonFeedback struct {
	gorm.Model
	LessonID  uint   `json:"lesson_id" gorm:"index;not null"`
	StudentID uint   `json:"student_id" gorm:"index;not null"`
	Rating    int    `json:"rating" gorm:"not null"`
	Comment   string `json:"comment" gorm:"type:text"`
}
