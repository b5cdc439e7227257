package controllers

import (
	"fmt"
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	"udoy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentController struct {
	DB *gorm.DB
	// CompletionCredit is the credit amount requested from the sponsor
	// pool when a student finishes a course.
	CompletionCredit int
}

func NewEnrollmentController(db *gorm.DB, completionCredit int) *EnrollmentController {
	return &EnrollmentController{DB: db, CompletionCredit: completionCredit}
}

func (ctrl *EnrollmentController) Enroll(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != models.CourseStatusPublished {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not open for enrollment!", nil)
	}

	var existing models.Enrollment
	if err := ctrl.DB.Where("student_id = ? AND course_id = ?", user.ID, courseID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	enrollment := models.Enrollment{
		StudentID: user.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentStatusInProgress,
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("You are enrolled in '%s'. Good luck!", course.Title)
		if err := services.NotifyUser(tx, user.ID, msg); err != nil {
			return err
		}
		id := course.ID
		return services.RecordActivity(tx, &user.ID, "course_enrolled", "course", &id, course.Title)
	})
	if err != nil {
		// A duplicate that slips past the pre-check still fails on the
		// unique (student, course) index. Unscoped: a soft-deleted row
		// occupies the index too.
		var raced models.Enrollment
		if ctrl.DB.Unscoped().Where("student_id = ? AND course_id = ?", user.ID, course.ID).
			First(&raced).Error == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
		}
		log.Printf("Error enrolling user %d in course %d: %v", user.ID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	utils.SendEnrollmentEmail(user.Email, user.FullName, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

func (ctrl *EnrollmentController) MyEnrollments(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := ctrl.DB.Model(&models.Enrollment{}).Where("student_id = ?", user.ID)

	var total int64
	db.Count(&total)

	var enrollments []models.Enrollment
	if err := db.Preload("Course").Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}
