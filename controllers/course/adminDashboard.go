package controllers

import (
	"log"
	"time"

	"udoy/middleware"
	"udoy/models"
	"udoy/utils"

	"github.com/gofiber/fiber/v2"
)

// CreatorInsights returns engagement analytics for one course: lesson
// pipeline counts, enrollment and completion totals, average progress,
// average lesson rating and the top students by progress. Only the
// owning creator or an admin can read it.
func (ctrl *CourseController) CreatorInsights(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view insights for your own courses!", nil)
	}

	var totalLessons, approvedLessons, pendingLessons int64
	ctrl.DB.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&totalLessons)
	ctrl.DB.Model(&models.Lesson{}).Where("course_id = ? AND status = ?", courseID, models.LessonStatusApproved).Count(&approvedLessons)
	ctrl.DB.Model(&models.Lesson{}).Where("course_id = ? AND status = ?", courseID, models.LessonStatusPendingReview).Count(&pendingLessons)

	var totalEnrollments, completedEnrollments int64
	ctrl.DB.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&totalEnrollments)
	ctrl.DB.Model(&models.Enrollment{}).Where("course_id = ? AND status = ?", courseID, models.EnrollmentStatusCompleted).Count(&completedEnrollments)

	var averageProgress *float64
	row := ctrl.DB.Model(&models.Enrollment{}).Where("course_id = ?", courseID).
		Select("AVG(progress)").Row()
	if err := row.Scan(&averageProgress); err != nil {
		log.Printf("Error computing average progress for course %d: %v", courseID, err)
	}
	if averageProgress != nil {
		rounded := utils.Round2(*averageProgress)
		averageProgress = &rounded
	}

	// Average rating across the course's lessons, null until rated.
	var averageRating *float64
	row = ctrl.DB.Model(&models.LessonFeedback{}).
		Joins("JOIN lessons ON lessons.id = lesson_feedbacks.lesson_id").
		Where("lessons.course_id = ?", courseID).
		Select("AVG(lesson_feedbacks.rating)").Row()
	if err := row.Scan(&averageRating); err != nil {
		log.Printf("Error computing average rating for course %d: %v", courseID, err)
	}
	if averageRating != nil {
		rounded := utils.Round2(*averageRating)
		averageRating = &rounded
	}

	type TopStudent struct {
		StudentID   uint       `json:"student_id"`
		StudentName string     `json:"student_name"`
		Progress    float64    `json:"progress"`
		Status      string     `json:"status"`
		CompletedAt *time.Time `json:"completed_at"`
	}

	var topEnrollments []models.Enrollment
	ctrl.DB.Where("course_id = ?", courseID).Order("progress desc").Limit(5).Find(&topEnrollments)

	topStudents := make([]TopStudent, len(topEnrollments))
	for i, e := range topEnrollments {
		var student models.User
		ctrl.DB.Select("full_name").First(&student, e.StudentID)
		topStudents[i] = TopStudent{
			StudentID:   e.StudentID,
			StudentName: student.FullName,
			Progress:    e.Progress,
			Status:      string(e.Status),
			CompletedAt: e.CompletedAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course insights fetched successfully!", fiber.Map{
		"course": fiber.Map{
			"id":     course.ID,
			"title":  course.Title,
			"status": course.Status,
		},
		"lessons": fiber.Map{
			"total":          totalLessons,
			"approved":       approvedLessons,
			"pending_review": pendingLessons,
		},
		"enrollments": fiber.Map{
			"total":     totalEnrollments,
			"completed": completedEnrollments,
		},
		"average_progress": averageProgress,
		"average_rating":   averageRating,
		"top_students":     topStudents,
	})
}
