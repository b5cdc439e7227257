package controllers

import (
	"errors"
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	courseValidator "udoy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateQuiz attaches a quiz to a lesson. Each question needs at least
// two options and an answer index pointing into them; a lesson can hold
// only one quiz.
func (ctrl *CourseController) CreateQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedQuiz").(*courseValidator.CreateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson models.Lesson
	if err := ctrl.DB.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if user.Role != models.RoleAdmin && lesson.CreatorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only add quizzes to your own lessons!", nil)
	}

	drafts := make([]services.QuizQuestionDraft, len(reqData.Questions))
	for i, q := range reqData.Questions {
		drafts[i] = services.QuizQuestionDraft{
			Prompt:      q.Prompt,
			Options:     q.Options,
			AnswerIndex: q.AnswerIndex,
		}
	}

	var quiz *models.Quiz
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		created, err := services.CreateQuiz(tx, &lesson, reqData.Title, drafts)
		if err != nil {
			return err
		}
		quiz = created
		id := quiz.ID
		return services.RecordActivity(tx, &user.ID, "quiz_created", "quiz", &id, quiz.Title)
	})
	if err != nil {
		if errors.Is(err, services.ErrQuizExists) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Lesson already has a quiz!", nil)
		}
		if errors.Is(err, services.ErrInvalidQuizDefinition) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// QuestionView is a quiz question with the answer index stripped out.
type QuestionView struct {
	ID      uint     `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// GetQuiz returns a quiz with its questions. Answer indexes are never
// included so the payload is safe for students taking the quiz.
func (ctrl *CourseController) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz models.Quiz
	if err := ctrl.DB.First(&quiz, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []models.QuizQuestion
	if err := ctrl.DB.Where("quiz_id = ?", quiz.ID).Order("id asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	views := make([]QuestionView, len(questions))
	for i, question := range questions {
		views[i] = QuestionView{
			ID:      question.ID,
			Prompt:  question.Prompt,
			Options: question.Options,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"id":        quiz.ID,
		"lesson_id": quiz.LessonID,
		"title":     quiz.Title,
		"questions": views,
	})
}
