package dashboardRoutes

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"udoy/config"
	"udoy/database"
	"udoy/middleware"
	"udoy/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
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
	SetupDashboardRoutes(app, db)
	return app, db
}

func createTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		FullName: fmt.Sprintf("Test %s", role),
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func doRequest(t *testing.T, app *fiber.App, method, path string, user *models.User) (int, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := middleware.GenerateJWT(user.ID, user.FullName, string(user.Role), user.Email)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&parsed))
	return res.StatusCode, parsed
}

func seedPublishedCourse(t *testing.T, db *gorm.DB, creator *models.User, subject string) *models.Course {
	t.Helper()

	now := time.Now()
	course := &models.Course{
		Title:       fmt.Sprintf("Course %s", uuid.NewString()[:8]),
		Subject:     subject,
		Level:       "beginner",
		CreatorID:   creator.ID,
		Status:      models.CourseStatusPublished,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func TestAdminAnalyticsEmptyPlatform(t *testing.T) {
	app, db := setupTestApp(t)
	admin := createTestUser(t, db, models.RoleAdmin)

	code, res := doRequest(t, app, "GET", "/admin/analytics", admin)
	require.Equal(t, fiber.StatusOK, code)

	var analytics struct {
		UsersByRole   map[string]int64 `json:"users_by_role"`
		Courses       []json.RawMessage `json:"courses"`
		PoolRemaining int               `json:"pool_remaining"`
		ThisMonth     struct {
			Enrollments int64 `json:"enrollments"`
			Donations   int64 `json:"donations"`
		} `json:"this_month"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &analytics))
	require.EqualValues(t, 1, analytics.UsersByRole["admin"])
	require.Empty(t, analytics.Courses)
	require.Zero(t, analytics.PoolRemaining)
	require.Zero(t, analytics.ThisMonth.Enrollments)
}

func TestAdminAnalyticsCounts(t *testing.T) {
	app, db := setupTestApp(t)
	admin := createTestUser(t, db, models.RoleAdmin)
	creator := createTestUser(t, db, models.RoleContentCreator)
	sponsor := createTestUser(t, db, models.RoleSponsor)
	student := createTestUser(t, db, models.RoleStudent)
	student.Credits = 80
	require.NoError(t, db.Save(student).Error)

	course := seedPublishedCourse(t, db, creator, "mathematics")
	enrollment := models.Enrollment{
		StudentID: student.ID, CourseID: course.ID,
		Status: models.EnrollmentStatusInProgress, Progress: 50,
	}
	require.NoError(t, db.Create(&enrollment).Error)
	donation := models.SponsorDonation{SponsorID: sponsor.ID, Amount: 100, Remaining: 60}
	require.NoError(t, db.Create(&donation).Error)

	code, res := doRequest(t, app, "GET", "/admin/analytics", admin)
	require.Equal(t, fiber.StatusOK, code)

	var analytics struct {
		UsersByRole map[string]int64 `json:"users_by_role"`
		Courses     []struct {
			Title           string `json:"title"`
			EnrollmentCount int64  `json:"enrollment_count"`
		} `json:"courses"`
		PoolRemaining int `json:"pool_remaining"`
		Leaderboard   []struct {
			UserID  uint `json:"user_id"`
			Credits int  `json:"credits"`
		} `json:"leaderboard"`
		ThisMonth struct {
			Enrollments int64 `json:"enrollments"`
			Donations   int64 `json:"donations"`
		} `json:"this_month"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &analytics))
	require.EqualValues(t, 1, analytics.UsersByRole["student"])
	require.EqualValues(t, 1, analytics.UsersByRole["content_creator"])
	require.Len(t, analytics.Courses, 1)
	require.EqualValues(t, 1, analytics.Courses[0].EnrollmentCount)
	require.Equal(t, 60, analytics.PoolRemaining)
	require.Len(t, analytics.Leaderboard, 1)
	require.Equal(t, student.ID, analytics.Leaderboard[0].UserID)
	require.Equal(t, 80, analytics.Leaderboard[0].Credits)
	require.EqualValues(t, 1, analytics.ThisMonth.Enrollments)
	require.EqualValues(t, 1, analytics.ThisMonth.Donations)

	// Only admins get the platform view
	code, _ = doRequest(t, app, "GET", "/admin/analytics", student)
	require.Equal(t, fiber.StatusForbidden, code)
}

func TestStudentDashboardAccess(t *testing.T) {
	app, db := setupTestApp(t)
	coach := createTestUser(t, db, models.RoleCoach)
	student := createTestUser(t, db, models.RoleStudent)
	other := createTestUser(t, db, models.RoleStudent)
	creator := createTestUser(t, db, models.RoleContentCreator)

	course := seedPublishedCourse(t, db, creator, "science")
	enrollment := models.Enrollment{
		StudentID: student.ID, CourseID: course.ID,
		Status: models.EnrollmentStatusInProgress, Progress: 25,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	// Students see their own dashboard
	code, res := doRequest(t, app, "GET", fmt.Sprintf("/students/%d/dashboard", student.ID), student)
	require.Equal(t, fiber.StatusOK, code)

	var dashboard struct {
		Student struct {
			ID      uint `json:"id"`
			Credits int  `json:"credits"`
		} `json:"student"`
		Enrollments []struct {
			Progress float64 `json:"progress"`
		} `json:"enrollments"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &dashboard))
	require.Equal(t, student.ID, dashboard.Student.ID)
	require.Len(t, dashboard.Enrollments, 1)
	require.Equal(t, 25.0, dashboard.Enrollments[0].Progress)

	// But not someone else's
	code, res = doRequest(t, app, "GET", fmt.Sprintf("/students/%d/dashboard", student.ID), other)
	require.Equal(t, fiber.StatusForbidden, code)
	require.Equal(t, "You can only view your own dashboard!", res.Message)

	// Coaches can look at any student
	code, _ = doRequest(t, app, "GET", fmt.Sprintf("/students/%d/dashboard", student.ID), coach)
	require.Equal(t, fiber.StatusOK, code)

	code, res = doRequest(t, app, "GET", "/students/9999/dashboard", coach)
	require.Equal(t, fiber.StatusNotFound, code)
	require.Equal(t, "Student not found!", res.Message)
}

func TestCoachStudentsOverview(t *testing.T) {
	app, db := setupTestApp(t)
	coach := createTestUser(t, db, models.RoleCoach)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)

	course := seedPublishedCourse(t, db, creator, "history")
	enrollment := models.Enrollment{
		StudentID: student.ID, CourseID: course.ID,
		Status: models.EnrollmentStatusInProgress, Progress: 75,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	code, res := doRequest(t, app, "GET", "/coach/students", coach)
	require.Equal(t, fiber.StatusOK, code)

	var overview struct {
		Students []struct {
			StudentID uint `json:"student_id"`
			Courses   []struct {
				CourseTitle string  `json:"course_title"`
				Progress    float64 `json:"progress"`
			} `json:"courses"`
		} `json:"students"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &overview))
	require.Equal(t, 1, overview.Total)
	require.Equal(t, student.ID, overview.Students[0].StudentID)
	require.Len(t, overview.Students[0].Courses, 1)
	require.Equal(t, course.Title, overview.Students[0].Courses[0].CourseTitle)
	require.Equal(t, 75.0, overview.Students[0].Courses[0].Progress)
}

func TestSponsorReports(t *testing.T) {
	app, db := setupTestApp(t)
	sponsor := createTestUser(t, db, models.RoleSponsor)
	student := createTestUser(t, db, models.RoleStudent)

	first := models.SponsorDonation{SponsorID: sponsor.ID, Amount: 100, Remaining: 40}
	second := models.SponsorDonation{SponsorID: sponsor.ID, Amount: 50, Remaining: 50}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	// Disbursements drawn from the pool
	completion := models.CreditTransaction{UserID: &student.ID, Amount: 50, Source: models.CreditSourceCompletion}
	coachAward := models.CreditTransaction{UserID: &student.ID, Amount: 10, Source: models.CreditSourceCoach}
	require.NoError(t, db.Create(&completion).Error)
	require.NoError(t, db.Create(&coachAward).Error)

	code, res := doRequest(t, app, "GET", "/sponsor/reports", sponsor)
	require.Equal(t, fiber.StatusOK, code)

	var report struct {
		Donations         []json.RawMessage `json:"donations"`
		TotalDonated      int               `json:"total_donated"`
		TotalRemaining    int               `json:"total_remaining"`
		DisbursedBySource map[string]int    `json:"disbursed_by_source"`
		PoolRemaining     int               `json:"pool_remaining"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &report))
	require.Len(t, report.Donations, 2)
	require.Equal(t, 150, report.TotalDonated)
	require.Equal(t, 90, report.TotalRemaining)
	require.Equal(t, 50, report.DisbursedBySource["completion"])
	require.Equal(t, 10, report.DisbursedBySource["coach"])
	require.Equal(t, 90, report.PoolRemaining)

	// Students have no sponsor report
	code, _ = doRequest(t, app, "GET", "/sponsor/reports", student)
	require.Equal(t, fiber.StatusForbidden, code)
}

func TestRecommendations(t *testing.T) {
	app, db := setupTestApp(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)

	enrolled := seedPublishedCourse(t, db, creator, "mathematics")
	seedPublishedCourse(t, db, creator, "mathematics")
	seedPublishedCourse(t, db, creator, "history")

	enrollment := models.Enrollment{
		StudentID: student.ID, CourseID: enrolled.ID,
		Status: models.EnrollmentStatusInProgress,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	code, res := doRequest(t, app, "GET", "/recommendations", student)
	require.Equal(t, fiber.StatusOK, code)

	var payload struct {
		Recommendations []struct {
			ID uint `json:"ID"`
		} `json:"recommendations"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &payload))
	require.Equal(t, 2, payload.Total)
	for _, course := range payload.Recommendations {
		require.NotEqual(t, enrolled.ID, course.ID)
	}

	// Recommendations are a student surface
	code, _ = doRequest(t, app, "GET", "/recommendations", creator)
	require.Equal(t, fiber.StatusForbidden, code)
}
