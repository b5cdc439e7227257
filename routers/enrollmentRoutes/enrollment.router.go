package enrollmentRoutes

import (
	"udoy/config"
	controllers "udoy/controllers/course"
	"udoy/middleware"
	"udoy/models"
	validators "udoy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupEnrollmentRoutes wires the student side: enrolling, taking
// quizzes, lesson feedback and certificates.
func SetupEnrollmentRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := controllers.NewEnrollmentController(db, config.AppConfig.CompletionCredit)

	app.Post("/courses/:id/enroll", middleware.JWTMiddleware, middleware.RequireRoles(db, models.StudentOnly...), validators.EnrollCourse(), ctrl.Enroll)
	app.Get("/users/me/enrollments", middleware.JWTMiddleware, middleware.RequireRoles(db, models.StudentOnly...), validators.GetUserEnrollments(), ctrl.MyEnrollments)

	app.Post("/quizzes/:id/attempt", middleware.JWTMiddleware, middleware.RequireRoles(db, models.StudentOnly...), validators.AttemptQuiz(), ctrl.AttemptQuiz)

	app.Post("/lessons/:id/feedback", middleware.JWTMiddleware, middleware.RequireRoles(db, models.StudentOnly...), validators.LessonFeedback(), ctrl.LeaveFeedback)
	app.Get("/lessons/:id/feedback", middleware.JWTMiddleware, middleware.RequireRoles(db, models.StaffRoles...), validators.LessonID(), ctrl.FeedbackList)

	certificateGroup := app.Group("/certificates")
	certificateGroup.Get("/me", middleware.JWTMiddleware, middleware.RequireRoles(db, models.StudentOnly...), ctrl.MyCertificates)
	// Open endpoint so anyone holding a serial number can check it.
	certificateGroup.Get("/verify/:serial", ctrl.VerifyCertificate)
}
