package controllers

import (
	"fmt"
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	courseValidator "udoy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddLesson creates a lesson inside a course. Creator lessons start as
// drafts; lessons added by an admin go straight to the review queue.
func (ctrl *CourseController) AddLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only add lessons to your own courses!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.CreateLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.ChapterID != nil {
		var chapter models.Chapter
		if err := ctrl.DB.First(&chapter, *reqData.ChapterID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
		}
		if chapter.CourseID != course.ID {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Chapter does not belong to this course!", nil)
		}
	}

	status := models.LessonStatusDraft
	if user.Role == models.RoleAdmin {
		status = models.LessonStatusPendingReview
	}

	lesson := models.Lesson{
		CourseID:    course.ID,
		ChapterID:   reqData.ChapterID,
		Title:       reqData.Title,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		AudioURL:    reqData.AudioURL,
		Resources:   datatypes.JSONSlice[string](reqData.Resources),
		CreatorID:   user.ID,
		Status:      status,
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}
		id := lesson.ID
		return services.RecordActivity(tx, &user.ID, "lesson_created", "lesson", &id, lesson.Title)
	})
	if err != nil {
		log.Printf("Error creating lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// SubmitLesson moves a draft lesson into the review queue. The lesson
// must already carry its quiz.
func (ctrl *CourseController) SubmitLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson models.Lesson
	if err := ctrl.DB.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if user.Role != models.RoleAdmin && lesson.CreatorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only submit your own lessons!", nil)
	}

	if lesson.Status != models.LessonStatusDraft {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only draft lessons can be submitted!", nil)
	}

	hasQuiz, err := services.LessonHasQuiz(ctrl.DB, lesson.ID)
	if err != nil {
		log.Printf("Error checking quiz for lesson %d: %v", lesson.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit lesson!", nil)
	}
	if !hasQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson must have a quiz before submission!", nil)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&lesson).Update("status", models.LessonStatusPendingReview).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Lesson '%s' is waiting for review.", lesson.Title)
		if err := services.NotifyRole(tx, models.RoleValidator, msg); err != nil {
			return err
		}
		id := lesson.ID
		return services.RecordActivity(tx, &user.ID, "lesson_submitted", "lesson", &id, lesson.Title)
	})
	if err != nil {
		log.Printf("Error submitting lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson submitted for review successfully!", lesson)
}
