package dashboardController

import (
	"log"
	"time"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	"udoy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// AdminAnalytics is the platform-wide overview: population by role,
// course health, sponsor pool state, credit leaderboard, recent activity
// and the current month's enrollment and donation counts.
func (ctrl *DashboardController) AdminAnalytics(c *fiber.Ctx) error {
	var roleCounts []struct {
		Role  string `json:"role"`
		Count int64  `json:"count"`
	}
	if err := ctrl.DB.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roleCounts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analytics!", nil)
	}

	usersByRole := make(map[string]int64, len(roleCounts))
	for _, rc := range roleCounts {
		usersByRole[rc.Role] = rc.Count
	}

	type CourseSummary struct {
		CourseID        uint    `json:"course_id"`
		Title           string  `json:"title"`
		Status          string  `json:"status"`
		LessonCount     int64   `json:"lesson_count"`
		EnrollmentCount int64   `json:"enrollment_count"`
		CompletionRate  float64 `json:"completion_rate"`
	}

	var courses []models.Course
	ctrl.DB.Order("created_at desc").Find(&courses)

	courseSummaries := make([]CourseSummary, len(courses))
	for i, course := range courses {
		var lessonCount, enrollmentCount, completedCount int64
		ctrl.DB.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessonCount)
		ctrl.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollmentCount)
		ctrl.DB.Model(&models.Enrollment{}).Where("course_id = ? AND status = ?", course.ID, models.EnrollmentStatusCompleted).Count(&completedCount)

		completionRate := float64(0)
		if enrollmentCount > 0 {
			completionRate = utils.Round2(float64(completedCount) / float64(enrollmentCount) * 100)
		}

		courseSummaries[i] = CourseSummary{
			CourseID:        course.ID,
			Title:           course.Title,
			Status:          string(course.Status),
			LessonCount:     lessonCount,
			EnrollmentCount: enrollmentCount,
			CompletionRate:  completionRate,
		}
	}

	poolRemaining, err := services.PoolRemaining(ctrl.DB)
	if err != nil {
		log.Printf("Error reading pool remaining: %v", err)
	}

	type LeaderboardEntry struct {
		UserID   uint   `json:"user_id"`
		FullName string `json:"full_name"`
		Credits  int    `json:"credits"`
	}

	var leaderboard []LeaderboardEntry
	ctrl.DB.Model(&models.User{}).
		Select("id AS user_id, full_name, credits").
		Where("role = ?", models.RoleStudent).
		Order("credits desc").
		Limit(5).
		Scan(&leaderboard)

	var recentActivity []models.ActivityLog
	ctrl.DB.Order("created_at desc").Limit(20).Find(&recentActivity)

	monthStart := now.BeginningOfMonth()

	var monthEnrollments, monthDonations int64
	ctrl.DB.Model(&models.Enrollment{}).Where("created_at >= ?", monthStart).Count(&monthEnrollments)
	ctrl.DB.Model(&models.SponsorDonation{}).Where("created_at >= ?", monthStart).Count(&monthDonations)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"users_by_role":   usersByRole,
		"courses":         courseSummaries,
		"pool_remaining":  poolRemaining,
		"leaderboard":     leaderboard,
		"recent_activity": recentActivity,
		"this_month": fiber.Map{
			"since":       monthStart.Format(time.RFC3339),
			"enrollments": monthEnrollments,
			"donations":   monthDonations,
		},
	})
}
