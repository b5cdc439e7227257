package userController

import (
	"log"

	"udoy/config"
	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	"udoy/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Me returns the authenticated user's profile.
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollmentCount int64
	ctrl.DB.Model(&models.Enrollment{}).Where("student_id = ?", user.ID).Count(&enrollmentCount)

	var certificateCount int64
	ctrl.DB.Model(&models.Certificate{}).Where("student_id = ?", user.ID).Count(&certificateCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User profile.", fiber.Map{
		"user":         user,
		"enrollments":  enrollmentCount,
		"certificates": certificateCount,
	})
}

// UpdateMe applies partial profile edits for the authenticated user.
func (ctrl *UserController) UpdateMe(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.FullName != nil {
		updates["full_name"] = *reqData.FullName
	}
	if reqData.Bio != nil {
		updates["bio"] = *reqData.Bio
	}
	if reqData.ProfileData != nil {
		updates["profile_data"] = datatypes.JSONMap(reqData.ProfileData)
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := ctrl.DB.Model(user).Updates(updates).Error; err != nil {
		log.Printf("Error updating profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

// ListUsers returns all accounts with optional role filter. Admin only.
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserList").(*struct {
		Page  *int   `json:"page"`
		Limit *int   `json:"limit"`
		Role  string `json:"role"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	query := ctrl.DB.Model(&models.User{})
	if reqData.Role != "" {
		query = query.Where("role = ?", reqData.Role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at desc").
		Offset(offset).
		Limit(*reqData.Limit).
		Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list.", response)
}

// CreateUser provisions an account with any role. Admin only.
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	admin, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedNewUser").(*userValidator.CreateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if email already exists
	if err := ctrl.DB.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		FullName: reqData.FullName,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     models.Role(reqData.Role),
		Bio:      reqData.Bio,
		IsActive: true,
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		if err := services.NotifyUser(tx, newUser.ID, "An account has been created for you on Udoy Learning."); err != nil {
			return err
		}
		targetID := newUser.ID
		return services.RecordActivity(tx, &admin.ID, "user_created", "user", &targetID, string(newUser.Role))
	})
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	newUser.Password = ""
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", newUser)
}

// ChangeRole reassigns a user's role. Admin only.
func (ctrl *UserController) ChangeRole(c *fiber.Ctx) error {
	admin, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetUserID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	reqData, ok := c.Locals("validatedRole").(*userValidator.ChangeRoleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := ctrl.DB.First(&user, targetID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	newRole := models.Role(reqData.Role)
	if user.Role == newRole {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User already has this role!", nil)
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("role", newRole).Error; err != nil {
			return err
		}
		if err := services.NotifyUser(tx, user.ID, "Your role has been changed to "+string(newRole)+"."); err != nil {
			return err
		}
		userID := user.ID
		return services.RecordActivity(tx, &admin.ID, "role_changed", "user", &userID, string(newRole))
	})
	if err != nil {
		log.Printf("Error changing role: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change role!", nil)
	}

	user.Role = newRole
	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated successfully.", user)
}

// DeactivateUser disables an account. Deactivated users cannot log in or
// pass the permission check. Admin only.
func (ctrl *UserController) DeactivateUser(c *fiber.Ctx) error {
	admin, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, ok := c.Locals("targetUserID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if uint(targetID) == admin.ID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot deactivate your own account!", nil)
	}

	var user models.User
	if err := ctrl.DB.First(&user, targetID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
			return err
		}
		userID := user.ID
		return services.RecordActivity(tx, &admin.ID, "user_deactivated", "user", &userID, user.Email)
	})
	if err != nil {
		log.Printf("Error deactivating user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deactivate user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deactivated successfully.", nil)
}
