package userProfileRoutes

import (
	userController "udoy/controllers/userControllers"
	"udoy/middleware"
	"udoy/models"
	"udoy/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	userGroup := app.Group("/users")

	userGroup.Get("/me", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), ctrl.Me)
	userGroup.Put("/me", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), userValidator.UpdateProfile(), ctrl.UpdateMe)

	// Admin account management
	userGroup.Get("/", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AdminOnly...), userValidator.UserList(), ctrl.ListUsers)
	userGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AdminOnly...), userValidator.CreateUser(), ctrl.CreateUser)
	userGroup.Post("/:id/role", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AdminOnly...), userValidator.ChangeRole(), ctrl.ChangeRole)
	userGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AdminOnly...), userValidator.UserID(), ctrl.DeactivateUser)
}
