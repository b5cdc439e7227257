package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is the graded check attached to a lesson. A lesson holds at most one.
type Quiz struct {
	gorm.Model
	LessonID uint   `json:"lesson_id" gorm:"uniqueIndex;not null"`
	Title    string `json:"title" gorm:"not null"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// QuizQuestion holds one prompt with its option list. AnswerIndex is the
// zero-based position of the correct option and is always within the list.
type QuizQuestion struct {
	gorm.Model
	QuizID      uint                        `json:"quiz_id" gorm:"index;not null"`
	Prompt      string                      `json:"prompt" gorm:"type:text;not null"`
	Options     datatypes.JSONSlice[string] `json:"options"`
	AnswerIndex int                         `json:"answer_index" gorm:"not null"`
}

// QuizAttempt is the immutable record of one scored submission
type QuizAttempt struct {
	gorm.Model
	QuizID    uint                     `json:"quiz_id" gorm:"index;not null"`
	StudentID uint                     `json:"student_id" gorm:"index;not null"`
	Responses datatypes.JSONSlice[int] `json:"responses"`
	Score     float64                  `json:"score" gorm:"default:0"`
	Correct   bool                     `json:"correct" gorm:"default:false"`
}
