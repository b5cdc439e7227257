package userValidator

import (
	"strconv"
	"strings"

	"udoy/middleware"
	"udoy/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest carries partial profile edits. Nil pointers leave the
// stored value untouched.
type UpdateProfileRequest struct {
	FullName    *string                `json:"fullName"`
	Bio         *string                `json:"bio"`
	ProfileData map[string]interface{} `json:"profileData"`
}

// CreateUserRequest is the admin-side account creation payload. Any role is
// allowed here, including admin.
type CreateUserRequest struct {
	FullName string `json:"fullName" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	Bio      string `json:"bio"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Full Name
		if reqData.FullName != nil && len(strings.TrimSpace(*reqData.FullName)) < 3 {
			errors["fullName"] = "Full name must be at least 3 characters long!"
		}

		// Validate Bio
		if reqData.Bio != nil && len(*reqData.Bio) > 500 {
			errors["bio"] = "Bio must not exceed 500 characters!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Pass validated profile edits to the next middleware
		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := middleware.ValidateStruct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		// Validate Role
		if reqData.Role != "" && !models.Role(reqData.Role).IsValid() {
			errors["role"] = "Invalid role!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNewUser", reqData)
		return c.Next()
	}
}

func ChangeRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr := strings.TrimSpace(c.Params("id"))
		if userIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID is required!", nil)
		}

		userID, err := strconv.Atoi(userIDStr)
		if err != nil || userID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		reqData := new(ChangeRoleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Role
		if !models.Role(reqData.Role).IsValid() {
			errors["role"] = "Invalid role!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("targetUserID", userID)
		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}

func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int   `json:"page"`
			Limit *int   `json:"limit"`
			Role  string `json:"role"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		// Validate Role filter
		if reqData.Role != "" && !models.Role(reqData.Role).IsValid() {
			errors["role"] = "Invalid role!"
		}

		// Return validation errors
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// UserID validates the :id route parameter.
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr := strings.TrimSpace(c.Params("id"))
		if userIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID is required!", nil)
		}

		userID, err := strconv.Atoi(userIDStr)
		if err != nil || userID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", userID)
		return c.Next()
	}
}
