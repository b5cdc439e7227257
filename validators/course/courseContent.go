package courseValidator

import (
	"strconv"
	"strings"

	"udoy/middleware"

	"github.com/gofiber/fiber/v2"
)

// ============ Chapter Validators ============

type CreateChapterRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Sequence int    `json:"sequence"`
}

func CreateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(CreateChapterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := middleware.ValidateStruct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		// Validate Sequence
		if reqData.Sequence < 0 {
			errors["sequence"] = "Sequence must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedChapter", reqData)
		return c.Next()
	}
}

// AssignLesson validates chapter and lesson route parameters.
func AssignLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chapterIDStr := strings.TrimSpace(c.Params("id"))
		lessonIDStr := strings.TrimSpace(c.Params("lessonId"))

		if chapterIDStr == "" || lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Chapter ID and Lesson ID are required!", nil)
		}

		chapterID, err := strconv.Atoi(chapterIDStr)
		if err != nil || chapterID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Chapter ID!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("chapterID", chapterID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// ============ Lesson Validators ============

type CreateLessonRequest struct {
	Title       string   `json:"title" validate:"required,min=3"`
	TextContent string   `json:"textContent"`
	VideoURL    string   `json:"videoUrl"`
	AudioURL    string   `json:"audioUrl"`
	Resources   []string `json:"resources"`
	ChapterID   *uint    `json:"chapterId"`
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(CreateLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := middleware.ValidateStruct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		// A lesson needs at least one kind of content
		if strings.TrimSpace(reqData.TextContent) == "" &&
			strings.TrimSpace(reqData.VideoURL) == "" &&
			strings.TrimSpace(reqData.AudioURL) == "" {
			errors["content"] = "Lesson must have text, video, or audio content!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// LessonID validates the :id route parameter.
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// ============ Quiz Validators ============

type QuizQuestionPayload struct {
	Prompt      string   `json:"prompt" validate:"required,min=3"`
	Options     []string `json:"options" validate:"required,min=2"`
	AnswerIndex int      `json:"answerIndex"`
}

type CreateQuizRequest struct {
	Title     string                `json:"title" validate:"required,min=3"`
	Questions []QuizQuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(CreateQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// QuizID validates the :id route parameter.
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizIDStr := strings.TrimSpace(c.Params("id"))
		if quizIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz ID is required!", nil)
		}

		quizID, err := strconv.Atoi(quizIDStr)
		if err != nil || quizID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}
