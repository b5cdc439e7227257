package authValidator

import (
	"udoy/middleware"
	"udoy/models"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the signup payload. Role is optional and defaults to
// student; admin accounts cannot be self-assigned.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := middleware.ValidateStruct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		// Validate Role
		if reqData.Role != "" {
			if !models.Role(reqData.Role).IsValid() {
				errors["role"] = "Invalid role!"
			} else if models.Role(reqData.Role) == models.RoleAdmin {
				errors["role"] = "Admin accounts cannot be self-registered!"
			}
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Pass validated request to the next middleware
		c.Locals("registerRequest", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Pass validated request to the next middleware
		c.Locals("loginRequest", reqData)
		return c.Next()
	}
}
