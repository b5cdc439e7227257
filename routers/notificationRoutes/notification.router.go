package notificationRoutes

import (
	notificationController "udoy/controllers/notification"
	"udoy/middleware"
	"udoy/models"
	notificationValidator "udoy/validators/notification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupNotificationRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := notificationController.NewNotificationController(db)

	notificationGroup := app.Group("/notifications")

	notificationGroup.Get("/", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), notificationValidator.NotificationList(), ctrl.ListNotifications)
	notificationGroup.Post("/:id/read", middleware.JWTMiddleware, middleware.RequireRoles(db, models.AllRoles...), notificationValidator.NotificationID(), ctrl.MarkRead)
}
