package creditRoutes

import (
	creditController "udoy/controllers/credits"
	"udoy/middleware"
	"udoy/models"
	creditValidator "udoy/validators/credits"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCreditRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := creditController.NewCreditController(db)

	app.Post("/sponsors/donate", middleware.JWTMiddleware, middleware.RequireRoles(db, models.SponsorRoles...), creditValidator.Donate(), ctrl.Donate)
	app.Post("/coaches/credits", middleware.JWTMiddleware, middleware.RequireRoles(db, models.CoachRoles...), creditValidator.CoachAward(), ctrl.CoachAward)
	app.Get("/credits/me", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), creditValidator.TransactionList(), ctrl.MyTransactions)
}
