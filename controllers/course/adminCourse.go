package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	"udoy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitCourse moves a draft course into the review queue.
func (ctrl *CourseController) SubmitCourse(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only submit your own courses!", nil)
	}

	if course.Status != models.CourseStatusDraft {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only draft courses can be submitted for review!", nil)
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&course).Update("status", models.CourseStatusPendingReview).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Course '%s' has been submitted for review.", course.Title)
		if err := services.NotifyRole(tx, models.RoleAdmin, msg); err != nil {
			return err
		}
		id := course.ID
		return services.RecordActivity(tx, &user.ID, "course_submitted", "course", &id, course.Title)
	})
	if err != nil {
		log.Printf("Error submitting course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course submitted for review successfully!", course)
}

// PublishCourse makes a reviewed course visible in the student catalog.
// The course must carry at least one approved lesson and every approved
// lesson must have a well formed quiz.
func (ctrl *CourseController) PublishCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != models.CourseStatusPendingReview {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only courses pending review can be published!", nil)
	}

	if err := services.CheckCoursePublishable(ctrl.DB, course.ID); err != nil {
		if errors.Is(err, services.ErrNotPublishable) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}
		log.Printf("Error checking course %d for publish: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	now := time.Now()
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.CourseStatusPublished,
			"published_at": &now,
		}
		if err := tx.Model(&course).Updates(updates).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Your course '%s' has been published.", course.Title)
		if err := services.NotifyUser(tx, course.CreatorID, msg); err != nil {
			return err
		}
		id := course.ID
		return services.RecordActivity(tx, &user.ID, "course_published", "course", &id, course.Title)
	})
	if err != nil {
		log.Printf("Error publishing course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	var creator models.User
	if err := ctrl.DB.First(&creator, course.CreatorID).Error; err == nil {
		utils.SendCoursePublishedEmail(creator.Email, creator.FullName, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}
