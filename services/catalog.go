package services

import (
	"errors"
	"fmt"

	"udoy/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrQuizExists means the lesson already carries its quiz.
	ErrQuizExists = errors.New("lesson already has a quiz")
	// ErrInvalidQuizDefinition covers questions with fewer than two options
	// or an answer index outside the option list.
	ErrInvalidQuizDefinition = errors.New("invalid quiz definition")
	// ErrMissingQuiz means a lesson was submitted for review without a quiz.
	ErrMissingQuiz = errors.New("lesson has no quiz")
	// ErrNotPublishable means the course failed the publish guard.
	ErrNotPublishable = errors.New("course is not publishable")
)

// QuizQuestionDraft is one question of a quiz being created
type QuizQuestionDraft struct {
	Prompt      string
	Options     []string
	AnswerIndex int
}

// CreateQuiz attaches a quiz to a lesson after validating the definition.
// A lesson holds at most one quiz.
func CreateQuiz(tx *gorm.DB, lesson *models.Lesson, title string, questions []QuizQuestionDraft) (*models.Quiz, error) {
	var existing models.Quiz
	err := tx.Where("lesson_id = ?", lesson.ID).First(&existing).Error
	if err == nil {
		return nil, ErrQuizExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: quiz needs at least one question", ErrInvalidQuizDefinition)
	}
	for i, q := range questions {
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidQuizDefinition, i+1)
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			return nil, fmt.Errorf("%w: question %d answer index out of range", ErrInvalidQuizDefinition, i+1)
		}
	}

	quiz := models.Quiz{LessonID: lesson.ID, Title: title}
	if err := tx.Create(&quiz).Error; err != nil {
		return nil, err
	}

	for _, q := range questions {
		question := models.QuizQuestion{
			QuizID:      quiz.ID,
			Prompt:      q.Prompt,
			Options:     datatypes.JSONSlice[string](q.Options),
			AnswerIndex: q.AnswerIndex,
		}
		if err := tx.Create(&question).Error; err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	return &quiz, nil
}

// LessonHasQuiz reports whether a quiz exists for the lesson
func LessonHasQuiz(db *gorm.DB, lessonID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Quiz{}).Where("lesson_id = ?", lessonID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckCoursePublishable enforces the publish guard: at least one approved
// lesson, and every approved lesson carries a quiz whose questions are all
// well formed.
func CheckCoursePublishable(db *gorm.DB, courseID uint) error {
	var lessons []models.Lesson
	if err := db.Where("course_id = ? AND status = ?", courseID, models.LessonStatusApproved).
		Find(&lessons).Error; err != nil {
		return err
	}
	if len(lessons) == 0 {
		return fmt.Errorf("%w: no approved lessons", ErrNotPublishable)
	}

	for _, lesson := range lessons {
		var quiz models.Quiz
		if err := db.Where("lesson_id = ?", lesson.ID).First(&quiz).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: approved lesson %q has no quiz", ErrNotPublishable, lesson.Title)
			}
			return err
		}

		var questions []models.QuizQuestion
		if err := db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return fmt.Errorf("%w: quiz for lesson %q has no questions", ErrNotPublishable, lesson.Title)
		}
		for _, q := range questions {
			if len(q.Options) < 2 || q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
				return fmt.Errorf("%w: quiz for lesson %q has an invalid question", ErrNotPublishable, lesson.Title)
			}
		}
	}

	return nil
}
