package courseRoutes

import (
	controllers "udoy/controllers/course"
	"udoy/middleware"
	"udoy/models"
	validators "udoy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupCourseRoutes wires the catalog: course lifecycle, chapters,
// lessons, the review queue and quizzes.
func SetupCourseRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := controllers.NewCourseController(db)

	courseGroup := app.Group("/courses")

	// Course lifecycle
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ContentAuthorRoles...), validators.CreateCourse(), ctrl.CreateCourse)
	courseGroup.Get("/", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), validators.CourseList(), ctrl.ListCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), validators.CourseID(), ctrl.CourseDetail)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ContentAuthorRoles...), validators.UpdateCourse(), ctrl.UpdateCourse)
	courseGroup.Post("/:id/submit", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ContentAuthorRoles...), validators.SubmitCourse(), ctrl.SubmitCourse)
	courseGroup.Post("/:id/publish", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AdminOnly...), validators.PublishCourse(), ctrl.PublishCourse)

	// Structure
	courseGroup.Post("/:id/chapters", middleware.JWTMiddleware, middleware.RequireRoles(db, models.CoachRoles...), validators.CreateChapter(), ctrl.AddChapter)
	courseGroup.Get("/:id/chapters", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), validators.CourseID(), ctrl.ListChapters)
	courseGroup.Post("/:id/lessons", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ContentAuthorRoles...), validators.CreateLesson(), ctrl.AddLesson)
	courseGroup.Get("/:id/insights", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ContentAuthorRoles...), validators.CourseID(), ctrl.CreatorInsights)

	chapterGroup := app.Group("/chapters")
	chapterGroup.Post("/:id/assign/:lessonId", middleware.JWTMiddleware, middleware.RequireRoles(db, models.CoachRoles...), validators.AssignLesson(), ctrl.AssignLesson)

	// Lesson review workflow
	lessonGroup := app.Group("/lessons")
	lessonGroup.Get("/pending", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ReviewerRoles...), validators.PendingLessons(), ctrl.PendingLessons)
	lessonGroup.Post("/:id/submit", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ContentAuthorRoles...), validators.LessonID(), ctrl.SubmitLesson)
	lessonGroup.Post("/:id/review", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ReviewerRoles...), validators.ReviewLesson(), ctrl.ReviewLesson)
	lessonGroup.Post("/:id/quiz", middleware.JWTMiddleware, middleware.RequireRoles(db, models.ContentAuthorRoles...), validators.CreateQuiz(), ctrl.CreateQuiz)

	quizGroup := app.Group("/quizzes")
	quizGroup.Get("/:id", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), validators.QuizID(), ctrl.GetQuiz)
}
