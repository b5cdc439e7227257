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

// AddChapter creates a chapter inside a course. When no sequence is
// given the chapter is appended after the current highest one.
func (ctrl *CourseController) AddChapter(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedChapter").(*courseValidator.CreateChapterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	sequence := reqData.Sequence
	if sequence == 0 {
		var maxSequence int
		ctrl.DB.Model(&models.Chapter{}).Where("course_id = ?", courseID).
			Select("COALESCE(MAX(sequence), 0)").Scan(&maxSequence)
		sequence = maxSequence + 1
	}

	chapter := models.Chapter{
		CourseID: uint(courseID),
		Title:    reqData.Title,
		Sequence: sequence,
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chapter).Error; err != nil {
			return err
		}
		id := chapter.ID
		return services.RecordActivity(tx, &user.ID, "chapter_created", "chapter", &id, chapter.Title)
	})
	if err != nil {
		log.Printf("Error creating chapter: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", chapter)
}

// AssignLesson places a lesson under a chapter of the same course.
func (ctrl *CourseController) AssignLesson(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	chapterID := c.Locals("chapterID").(int)
	lessonID := c.Locals("lessonID").(int)

	var chapter models.Chapter
	if err := ctrl.DB.First(&chapter, chapterID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	var lesson models.Lesson
	if err := ctrl.DB.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if lesson.CourseID != chapter.CourseID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson and chapter must belong to the same course!", nil)
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&lesson).Update("chapter_id", chapter.ID).Error; err != nil {
			return err
		}
		id := lesson.ID
		return services.RecordActivity(tx, &user.ID, "lesson_assigned", "lesson", &id, chapter.Title)
	})
	if err != nil {
		log.Printf("Error assigning lesson to chapter: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson assigned to chapter successfully!", lesson)
}

// ListChapters returns a course's chapters with their lesson counts.
func (ctrl *CourseController) ListChapters(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := ctrl.DB.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var chapters []models.Chapter
	if err := ctrl.DB.Where("course_id = ?", courseID).Order("sequence asc").Find(&chapters).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapters!", nil)
	}

	type ChapterWithCount struct {
		models.Chapter
		LessonCount int64 `json:"lesson_count"`
	}

	chaptersWithCount := make([]ChapterWithCount, len(chapters))
	for i, chapter := range chapters {
		var count int64
		ctrl.DB.Model(&models.Lesson{}).Where("chapter_id = ?", chapter.ID).Count(&count)
		chaptersWithCount[i] = ChapterWithCount{
			Chapter:     chapter,
			LessonCount: count,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters fetched successfully!", fiber.Map{
		"chapters": chaptersWithCount,
	})
}
