package courseValidator

import (
	"strconv"
	"strings"

	"udoy/middleware"

	"github.com/gofiber/fiber/v2"
)

// ============ Review Workflow Validators ============

// ReviewLessonRequest carries the validator's decision. Feedback is required
// when rejecting so the creator knows what to fix.
type ReviewLessonRequest struct {
	Decision string `json:"decision" validate:"required"`
	Feedback string `json:"feedback"`
}

// ReviewLesson validates a lesson review decision.
func ReviewLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(ReviewLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Decision = strings.TrimSpace(reqData.Decision)
		reqData.Feedback = strings.TrimSpace(reqData.Feedback)

		// Validate Decision
		if reqData.Decision != "approve" && reqData.Decision != "reject" {
			errors["decision"] = "Decision must be approve or reject!"
		}

		// Feedback is mandatory on rejection
		if reqData.Decision == "reject" && reqData.Feedback == "" {
			errors["feedback"] = "Feedback is required when rejecting a lesson!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// PendingLessons validates the review queue listing request.
func PendingLessons() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		// Set defaults if not provided
		defaultPage := 1
		defaultLimit := 10
		if reqData.Page == nil || *reqData.Page < 1 {
			reqData.Page = &defaultPage
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			reqData.Limit = &defaultLimit
		}

		c.Locals("validatedPendingList", reqData)
		return c.Next()
	}
}

// ============ Publish Workflow Validators ============

// SubmitCourse validates the course submission request.
func SubmitCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// PublishCourse validates the course publish request.
func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
