package dashboardRoutes

import (
	dashboardController "udoy/controllers/dashboard"
	"udoy/middleware"
	"udoy/models"
	"udoy/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := dashboardController.NewDashboardController(db)

	app.Get("/admin/analytics", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AdminOnly...), ctrl.AdminAnalytics)
	app.Get("/coach/students", middleware.JWTMiddleware, middleware.RequireRoles(db, models.CoachRoles...), ctrl.CoachStudents)
	app.Get("/sponsor/reports", middleware.JWTMiddleware, middleware.RequireRoles(db, models.SponsorRoles...), ctrl.SponsorReports)
	app.Get("/students/:id/dashboard", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), userValidator.UserID(), ctrl.StudentDashboard)
	app.Get("/recommendations", middleware.JWTMiddleware, middleware.RequireRoles(db, models.StudentOnly...), ctrl.Recommendations)
}
