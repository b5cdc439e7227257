package authRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"udoy/config"
	"udoy/database"
	"udoy/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:           "test-secret",
		SaltRound:        4,
		CompletionCredit: 50,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	app := fiber.New()
	SetupAuthRoutes(app, db)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, apiResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&parsed))
	return res.StatusCode, parsed
}

func TestRegisterAndLogin(t *testing.T) {
	app, db := setupTestApp(t)

	code, res := postJSON(t, app, "/auth/register", fiber.Map{
		"fullName": "Amina Rahman",
		"email":    "amina@example.com",
		"password": "Password123!",
		"role":     "student",
	})
	require.Equal(t, fiber.StatusCreated, code)
	require.True(t, res.Status)
	require.Equal(t, "User registered successfully.", res.Message)

	var created struct {
		ID       uint        `json:"ID"`
		Email    string      `json:"email"`
		Role     models.Role `json:"role"`
		Password string      `json:"password"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &created))
	require.Equal(t, "amina@example.com", created.Email)
	require.Equal(t, models.RoleStudent, created.Role)
	require.Empty(t, created.Password)

	// Registration leaves a welcome notification behind
	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", created.ID).Count(&notifications).Error)
	require.EqualValues(t, 1, notifications)

	code, res = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "amina@example.com",
		"password": "Password123!",
	})
	require.Equal(t, fiber.StatusOK, code)
	require.True(t, res.Status)

	var login struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	require.NotEmpty(t, login.Token)
	require.Equal(t, "amina@example.com", login.User.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := setupTestApp(t)

	payload := fiber.Map{
		"fullName": "Amina Rahman",
		"email":    "amina@example.com",
		"password": "Password123!",
	}

	code, _ := postJSON(t, app, "/auth/register", payload)
	require.Equal(t, fiber.StatusCreated, code)

	code, res := postJSON(t, app, "/auth/register", payload)
	require.Equal(t, fiber.StatusConflict, code)
	require.False(t, res.Status)
	require.Equal(t, "Email is already registered!", res.Message)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	app, _ := setupTestApp(t)

	code, res := postJSON(t, app, "/auth/register", fiber.Map{
		"fullName": "Wannabe Admin",
		"email":    "admin@example.com",
		"password": "Password123!",
		"role":     "admin",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	require.False(t, res.Status)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setupTestApp(t)

	// Malformed email and a password below the minimum length
	code, _ := postJSON(t, app, "/auth/register", fiber.Map{
		"fullName": "Bad Input",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, code)

	// Unknown role
	code, _ = postJSON(t, app, "/auth/register", fiber.Map{
		"fullName": "Bad Role",
		"email":    "role@example.com",
		"password": "Password123!",
		"role":     "wizard",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _ := setupTestApp(t)

	code, _ := postJSON(t, app, "/auth/register", fiber.Map{
		"fullName": "Amina Rahman",
		"email":    "amina@example.com",
		"password": "Password123!",
	})
	require.Equal(t, fiber.StatusCreated, code)

	code, res := postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "amina@example.com",
		"password": "WrongPassword1!",
	})
	require.Equal(t, fiber.StatusUnauthorized, code)
	require.Equal(t, "Invalid credentials!", res.Message)

	code, res = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "Password123!",
	})
	require.Equal(t, fiber.StatusUnauthorized, code)
	require.Equal(t, "Invalid credentials!", res.Message)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	app, db := setupTestApp(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), config.AppConfig.SaltRound)
	require.NoError(t, err)

	user := models.User{
		FullName: "Dormant User",
		Email:    "dormant@example.com",
		Password: string(hashed),
		Role:     models.RoleStudent,
		IsActive: false,
	}
	require.NoError(t, db.Create(&user).Error)
	// gorm omits zero-valued fields with a default tag from the INSERT, so
	// force the column the way production deactivation does.
	require.NoError(t, db.Model(&user).Update("is_active", false).Error)

	code, res := postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "dormant@example.com",
		"password": "Password123!",
	})
	require.Equal(t, fiber.StatusUnauthorized, code)
	require.Equal(t, "Your account has been deactivated!", res.Message)
}
