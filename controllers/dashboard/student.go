package dashboardController

import (
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"

	"github.com/gofiber/fiber/v2"
)

// StudentDashboard is the per-student overview: enrollments with their
// courses, badges, credits, certificates and the latest notifications.
// Students see their own; coaches and admins can open any student's.
func (ctrl *DashboardController) StudentDashboard(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetUserID := c.Locals("targetUserID").(int)

	staffView := user.Role == models.RoleCoach || user.Role == models.RoleAdmin
	if !staffView && user.ID != uint(targetUserID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view your own dashboard!", nil)
	}

	var student models.User
	if err := ctrl.DB.First(&student, targetUserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var enrollments []models.Enrollment
	ctrl.DB.Where("student_id = ?", student.ID).Preload("Course").
		Order("created_at desc").Find(&enrollments)

	var certificates []models.Certificate
	ctrl.DB.Where("student_id = ?", student.ID).Preload("Course").
		Order("issued_at desc").Find(&certificates)

	var notifications []models.Notification
	ctrl.DB.Where("user_id = ?", student.ID).
		Order("created_at desc").Limit(10).Find(&notifications)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":        student.ID,
			"full_name": student.FullName,
			"email":     student.Email,
			"role":      student.Role,
			"credits":   student.Credits,
			"badges":    student.Badges,
		},
		"enrollments":   enrollments,
		"certificates":  certificates,
		"notifications": notifications,
	})
}

// Recommendations suggests published courses the student has not joined
// yet, by subject affinity first, then beginner courses, then whatever
// is most popular.
func (ctrl *DashboardController) Recommendations(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courses, err := services.RecommendCourses(ctrl.DB, user, 5)
	if err != nil {
		log.Printf("Error building recommendations for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recommendations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommendations fetched successfully!", fiber.Map{
		"recommendations": courses,
		"total":           len(courses),
	})
}
