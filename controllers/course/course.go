package controllers

import (
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	courseValidator "udoy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CourseController struct {
	DB *gorm.DB
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{DB: db}
}

func roleIn(role models.Role, group []models.Role) bool {
	for _, r := range group {
		if r == role {
			return true
		}
	}
	return false
}

// canManageCourse reports whether the user may edit this course's content.
func canManageCourse(user *models.User, course *models.Course) bool {
	return user.Role == models.RoleAdmin || course.CreatorID == user.ID
}

func (ctrl *CourseController) CreateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	level := reqData.Level
	if level == "" {
		level = "beginner"
	}

	course := models.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Subject:     reqData.Subject,
		Level:       level,
		CreatorID:   user.ID,
		Status:      models.CourseStatusDraft,
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		courseID := course.ID
		return services.RecordActivity(tx, &user.ID, "course_created", "course", &courseID, course.Title)
	})
	if err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (ctrl *CourseController) ListCourses(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*struct {
		Page   *int   `json:"page"`
		Limit  *int   `json:"limit"`
		Status string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := ctrl.DB.Model(&models.Course{})

	// Students and sponsors browse the published catalog only; staff can
	// filter by workflow status.
	if roleIn(user.Role, models.StaffRoles) {
		if reqData.Status != "" {
			db = db.Where("status = ?", reqData.Status)
		}
	} else {
		db = db.Where("status = ?", models.CourseStatusPublished)
	}

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// LessonSummary is a lesson plus whether a quiz is attached to it.
type LessonSummary struct {
	models.Lesson
	HasQuiz bool  `json:"has_quiz"`
	QuizID  *uint `json:"quiz_id,omitempty"`
}

func (ctrl *CourseController) CourseDetail(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	staff := roleIn(user.Role, models.StaffRoles)

	// Unpublished courses are invisible outside the staff and the owner.
	if course.Status != models.CourseStatusPublished && !staff && course.CreatorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var chapters []models.Chapter
	ctrl.DB.Where("course_id = ?", courseID).Order("sequence asc").Find(&chapters)

	lessonQuery := ctrl.DB.Where("course_id = ?", courseID)
	if !staff {
		lessonQuery = lessonQuery.Where("status = ?", models.LessonStatusApproved)
	}

	var lessons []models.Lesson
	lessonQuery.Order("created_at asc").Find(&lessons)

	lessonIDs := make([]uint, 0, len(lessons))
	for _, lesson := range lessons {
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	quizByLesson := make(map[uint]uint, len(lessonIDs))
	if len(lessonIDs) > 0 {
		var quizzes []models.Quiz
		ctrl.DB.Where("lesson_id IN ?", lessonIDs).Find(&quizzes)
		for _, quiz := range quizzes {
			quizByLesson[quiz.LessonID] = quiz.ID
		}
	}

	summaries := make([]LessonSummary, len(lessons))
	for i, lesson := range lessons {
		summaries[i] = LessonSummary{Lesson: lesson}
		if quizID, found := quizByLesson[lesson.ID]; found {
			id := quizID
			summaries[i].HasQuiz = true
			summaries[i].QuizID = &id
		}
	}

	var enrollment models.Enrollment
	isEnrolled := ctrl.DB.Where("student_id = ? AND course_id = ?", user.ID, courseID).
		First(&enrollment).Error == nil

	response := fiber.Map{
		"course":      course,
		"chapters":    chapters,
		"lessons":     summaries,
		"is_enrolled": isEnrolled,
	}
	if isEnrolled {
		response["enrollment"] = enrollment
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
}

func (ctrl *CourseController) UpdateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own courses!", nil)
	}

	if course.Status == models.CourseStatusPublished {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Published courses cannot be edited!", nil)
	}

	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Subject != "" {
		course.Subject = reqData.Subject
	}
	if reqData.Level != "" {
		course.Level = reqData.Level
	}

	if err := ctrl.DB.Save(&course).Error; err != nil {
		log.Printf("Error updating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}
