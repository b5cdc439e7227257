package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentStatus tracks whether the student is still working or done
type EnrollmentStatus string

const (
	EnrollmentStatusInProgress EnrollmentStatus = "in_progress"
	EnrollmentStatusCompleted  EnrollmentStatus = "completed"
)

// QuizScoreEntry is the latest graded result a student holds for one quiz
type QuizScoreEntry struct {
	Score       float64   `json:"score"`
	Correct     bool      `json:"correct"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// Enrollment pairs a student with a course, at most once. Progress is the
// percentage of the course's approved lessons the student has passed, kept
// between 0 and 100 and never lowered once stored.
type Enrollment struct {
	gorm.Model
	StudentID        uint                                          `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID         uint                                          `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	Course           Course                                        `json:"course" gorm:"foreignKey:CourseID"`
	Status           EnrollmentStatus                              `json:"status" gorm:"type:varchar(30);default:'in_progress'"`
	Progress         float64                                       `json:"progress" gorm:"default:0"`
	CompletedLessons datatypes.JSONSlice[uint]                     `json:"completed_lessons"`
	LastLessonID     *uint                                         `json:"last_lesson_id"`
	QuizScores       datatypes.JSONType[map[string]QuizScoreEntry] `json:"quiz_scores"`
	CreditsAwarded   int                                           `json:"credits_awarded" gorm:"default:0"`
	CompletedAt      *time.Time                                    `json:"completed_at"`
}
