package controllers

import (
	"fmt"
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	courseValidator "udoy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReviewLesson applies a validator's decision to a lesson in the review
// queue. Approval records the reviewer; rejection sends the lesson back
// to draft and forwards the feedback to the creator.
func (ctrl *CourseController) ReviewLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedReview").(*courseValidator.ReviewLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson models.Lesson
	if err := ctrl.DB.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if lesson.Status != models.LessonStatusPendingReview {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only lessons pending review can be reviewed!", nil)
	}

	if reqData.Decision == "approve" {
		hasQuiz, err := services.LessonHasQuiz(ctrl.DB, lesson.ID)
		if err != nil {
			log.Printf("Error checking quiz for lesson %d: %v", lesson.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to review lesson!", nil)
		}
		if !hasQuiz {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson has no quiz and cannot be approved!", nil)
		}

		err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"status":       models.LessonStatusApproved,
				"validator_id": user.ID,
			}
			if err := tx.Model(&lesson).Updates(updates).Error; err != nil {
				return err
			}
			msg := fmt.Sprintf("Your lesson '%s' has been approved.", lesson.Title)
			if err := services.NotifyUser(tx, lesson.CreatorID, msg); err != nil {
				return err
			}
			id := lesson.ID
			return services.RecordActivity(tx, &user.ID, "lesson_approved", "lesson", &id, lesson.Title)
		})
		if err != nil {
			log.Printf("Error approving lesson: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to review lesson!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson approved successfully!", lesson)
	}

	// Rejection returns the lesson to draft with the feedback attached.
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&lesson).Update("status", models.LessonStatusDraft).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Your lesson '%s' was rejected: %s", lesson.Title, reqData.Feedback)
		if err := services.NotifyUser(tx, lesson.CreatorID, msg); err != nil {
			return err
		}
		id := lesson.ID
		return services.RecordActivity(tx, &user.ID, "lesson_rejected", "lesson", &id, reqData.Feedback)
	})
	if err != nil {
		log.Printf("Error rejecting lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to review lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson rejected and returned to draft!", lesson)
}

// PendingLessons lists the review queue oldest first.
func (ctrl *CourseController) PendingLessons(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPendingList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := ctrl.DB.Model(&models.Lesson{}).Where("status = ?", models.LessonStatusPendingReview)

	var total int64
	db.Count(&total)

	var lessons []models.Lesson
	if err := db.Offset(offset).Limit(limit).Order("created_at asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending lessons!", nil)
	}

	response := map[string]interface{}{
		"lessons": lessons,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending lessons fetched successfully!", response)
}
