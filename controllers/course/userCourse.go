package controllers

import (
	"errors"
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	"udoy/utils"
	courseValidator "udoy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AttemptQuiz grades a student's quiz submission and rolls the result
// into their enrollment: attempt record, score map, completed lessons,
// progress, badges and, on the first time progress reaches 100, course
// completion with certificate and credit award.
func (ctrl *EnrollmentController) AttemptQuiz(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedAttempt").(*courseValidator.AttemptQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var quiz models.Quiz
	if err := ctrl.DB.First(&quiz, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []models.QuizQuestion
	if err := ctrl.DB.Where("quiz_id = ?", quiz.ID).Order("id asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions!", nil)
	}

	var lesson models.Lesson
	if err := ctrl.DB.First(&lesson, quiz.LessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if lesson.Status != models.LessonStatusApproved {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson is not approved yet!", nil)
	}

	var enrollment models.Enrollment
	if err := ctrl.DB.Where("student_id = ? AND course_id = ?", user.ID, lesson.CourseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are not enrolled in this course!", nil)
	}

	var result *services.AttemptResult
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		applied, err := services.ApplyQuizResult(tx, user, &enrollment, &lesson, &quiz, questions, reqData.Responses, ctrl.CompletionCredit)
		if err != nil {
			return err
		}
		result = applied
		return nil
	})
	if err != nil {
		if errors.Is(err, services.ErrResponseCountMismatch) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Responses must answer every question!", nil)
		}
		if errors.Is(err, services.ErrAnswerIndexOutOfRange) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid answer index!", nil)
		}
		log.Printf("Error applying quiz attempt for user %d quiz %d: %v", user.ID, quiz.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record quiz attempt!", nil)
	}

	if result.CertificateIssued {
		var course models.Course
		if err := ctrl.DB.First(&course, lesson.CourseID).Error; err == nil {
			utils.SendCertificateEmail(user.Email, user.FullName, course.Title, result.CertificateSerial)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempt recorded successfully!", result)
}

// LeaveFeedback stores a student's rating for an approved lesson they
// are enrolled in.
func (ctrl *EnrollmentController) LeaveFeedback(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedFeedback").(*courseValidator.LessonFeedbackRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson models.Lesson
	if err := ctrl.DB.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if lesson.Status != models.LessonStatusApproved {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson is not approved yet!", nil)
	}

	var enrollment models.Enrollment
	if err := ctrl.DB.Where("student_id = ? AND course_id = ?", user.ID, lesson.CourseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are not enrolled in this course!", nil)
	}

	feedback := models.LessonFeedback{
		LessonID:  lesson.ID,
		StudentID: user.ID,
		Rating:    reqData.Rating,
		Comment:   reqData.Comment,
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&feedback).Error; err != nil {
			return err
		}
		id := lesson.ID
		return services.RecordActivity(tx, &user.ID, "lesson_feedback", "lesson", &id, reqData.Comment)
	})
	if err != nil {
		log.Printf("Error saving lesson feedback: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save feedback!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Feedback submitted successfully!", feedback)
}

// FeedbackList returns a lesson's feedback entries with the average
// rating. The average is null until the first entry arrives.
func (ctrl *EnrollmentController) FeedbackList(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(int)

	var lesson models.Lesson
	if err := ctrl.DB.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var entries []models.LessonFeedback
	if err := ctrl.DB.Where("lesson_id = ?", lessonID).Order("created_at desc").Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch feedback!", nil)
	}

	var average *float64
	row := ctrl.DB.Model(&models.LessonFeedback{}).Where("lesson_id = ?", lessonID).
		Select("AVG(rating)").Row()
	if err := row.Scan(&average); err != nil {
		log.Printf("Error computing average rating for lesson %d: %v", lessonID, err)
	}
	if average != nil {
		rounded := utils.Round2(*average)
		average = &rounded
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback fetched successfully!", fiber.Map{
		"feedback":       entries,
		"average_rating": average,
		"total":          len(entries),
	})
}
