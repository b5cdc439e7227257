package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LessonStatus is the review state of a lesson
type LessonStatus string

const (
	LessonStatusDraft         LessonStatus = "draft"
	LessonStatusPendingReview LessonStatus = "pending_review"
	LessonStatusApproved      LessonStatus = "approved"
)

// Lesson belongs to a course and optionally to one of its chapters.
// Only approved lessons count toward course publication and progress.
type Lesson struct {
	gorm.Model
	CourseID    uint                        `json:"course_id" gorm:"index;not null"`
	ChapterID   *uint                       `json:"chapter_id" gorm:"index"`
	Title       string                      `json:"title" gorm:"not null"`
	TextContent string                      `json:"text_content" gorm:"type:text"`
	VideoURL    string                      `json:"video_url"`
	AudioURL    string                      `json:"audio_url"`
	Resources   datatypes.JSONSlice[string] `json:"resources"`
	CreatorID   uint                        `json:"creator_id" gorm:"index;not null"`
	ValidatorID *uint                       `json:"validator_id"`
	Status      LessonStatus                `json:"status" gorm:"type:varchar(30);default:'draft';index"`
}
