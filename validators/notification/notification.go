package notificationValidator

import (
	"strconv"
	"strings"

	"udoy/middleware"

	"github.com/gofiber/fiber/v2"
)

// NotificationID validates the :id route parameter.
func NotificationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		notificationIDStr := strings.TrimSpace(c.Params("id"))
		if notificationIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Notification ID is required!", nil)
		}

		notificationID, err := strconv.Atoi(notificationIDStr)
		if err != nil || notificationID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Notification ID!", nil)
		}

		c.Locals("notificationID", notificationID)
		return c.Next()
	}
}

// NotificationList validates the notification listing request
func NotificationList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		// Set defaults if not provided
		defaultPage := 1
		defaultLimit := 10
		if reqData.Page == nil || *reqData.Page < 1 {
			reqData.Page = &defaultPage
		}
		if reqData.Limit == nil || *reqData.Limit < 1 {
			reqData.Limit = &defaultLimit
		}

		c.Locals("validatedNotificationList", reqData)
		return c.Next()
	}
}
