package dashboardController

import (
	"time"

	"udoy/middleware"
	"udoy/models"

	"github.com/gofiber/fiber/v2"
)

// CoachStudents builds the student-to-courses progress matrix a coach
// works from: one row per active student with every enrollment and its
// progress.
func (ctrl *DashboardController) CoachStudents(c *fiber.Ctx) error {
	var students []models.User
	if err := ctrl.DB.Where("role = ? AND is_active = ?", models.RoleStudent, true).
		Order("full_name asc").Find(&students).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	type CourseProgress struct {
		CourseID    uint       `json:"course_id"`
		CourseTitle string     `json:"course_title"`
		Progress    float64    `json:"progress"`
		Status      string     `json:"status"`
		CompletedAt *time.Time `json:"completed_at"`
	}

	type StudentRow struct {
		StudentID uint             `json:"student_id"`
		FullName  string           `json:"full_name"`
		Email     string           `json:"email"`
		Credits   int              `json:"credits"`
		Courses   []CourseProgress `json:"courses"`
	}

	rows := make([]StudentRow, len(students))
	for i, student := range students {
		var enrollments []models.Enrollment
		ctrl.DB.Where("student_id = ?", student.ID).Preload("Course").
			Order("created_at asc").Find(&enrollments)

		courses := make([]CourseProgress, len(enrollments))
		for j, e := range enrollments {
			courses[j] = CourseProgress{
				CourseID:    e.CourseID,
				CourseTitle: e.Course.Title,
				Progress:    e.Progress,
				Status:      string(e.Status),
				CompletedAt: e.CompletedAt,
			}
		}

		rows[i] = StudentRow{
			StudentID: student.ID,
			FullName:  student.FullName,
			Email:     student.Email,
			Credits:   student.Credits,
			Courses:   courses,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"students": rows,
		"total":    len(rows),
	})
}
