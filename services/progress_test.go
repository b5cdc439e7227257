package services

import (
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"udoy/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// courseFixture is a published course whose approved lessons each carry a
// two-question quiz. Answering [0, 1] passes a quiz, [1, 0] fails it.
type courseFixture struct {
	course    *models.Course
	lessons   []models.Lesson
	quizzes   []models.Quiz
	questions [][]models.QuizQuestion
}

func seedPublishedCourse(t *testing.T, db *gorm.DB, creator *models.User, lessonCount int) *courseFixture {
	t.Helper()

	now := time.Now()
	course := &models.Course{
		Title:       fmt.Sprintf("Course %s", uuid.NewString()[:8]),
		Description: "Test course",
		Subject:     "mathematics",
		Level:       "beginner",
		CreatorID:   creator.ID,
		Status:      models.CourseStatusPublished,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(course).Error)

	fixture := &courseFixture{course: course}
	for i := 0; i < lessonCount; i++ {
		fixture.addLesson(t, db, creator, models.LessonStatusApproved)
	}
	return fixture
}

func (fx *courseFixture) addLesson(t *testing.T, db *gorm.DB, creator *models.User, status models.LessonStatus) {
	t.Helper()

	lesson := models.Lesson{
		CourseID:    fx.course.ID,
		Title:       fmt.Sprintf("Lesson %d", len(fx.lessons)+1),
		TextContent: "Lesson body",
		CreatorID:   creator.ID,
		Status:      status,
	}
	require.NoError(t, db.Create(&lesson).Error)

	quiz := models.Quiz{LessonID: lesson.ID, Title: lesson.Title + " Quiz"}
	require.NoError(t, db.Create(&quiz).Error)

	questions := []models.QuizQuestion{
		{QuizID: quiz.ID, Prompt: "Pick the first option", Options: datatypes.JSONSlice[string]{"right", "wrong", "wrong"}, AnswerIndex: 0},
		{QuizID: quiz.ID, Prompt: "Pick the second option", Options: datatypes.JSONSlice[string]{"wrong", "right"}, AnswerIndex: 1},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	fx.lessons = append(fx.lessons, lesson)
	fx.quizzes = append(fx.quizzes, quiz)
	fx.questions = append(fx.questions, questions)
}

func enrollStudent(t *testing.T, db *gorm.DB, student *models.User, course *models.Course) *models.Enrollment {
	t.Helper()

	enrollment := &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentStatusInProgress,
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func attemptLesson(t *testing.T, db *gorm.DB, student *models.User, enrollment *models.Enrollment, fx *courseFixture, idx int, responses []int) *AttemptResult {
	t.Helper()

	result, err := ApplyQuizResult(db, student, enrollment, &fx.lessons[idx], &fx.quizzes[idx], fx.questions[idx], responses, 50)
	require.NoError(t, err)
	return result
}

func TestScoreResponsesGrading(t *testing.T) {
	questions := []models.QuizQuestion{
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 0},
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 1},
	}

	score, correct, err := ScoreResponses(questions, []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, 100.0, score)
	require.True(t, correct)

	score, correct, err = ScoreResponses(questions, []int{0, 0})
	require.NoError(t, err)
	require.Equal(t, 50.0, score)
	require.False(t, correct)
}

func TestScoreResponsesRounding(t *testing.T) {
	questions := []models.QuizQuestion{
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 0},
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 0},
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 0},
	}

	score, correct, err := ScoreResponses(questions, []int{0, 1, 1})
	require.NoError(t, err)
	require.Equal(t, 33.33, score)
	require.False(t, correct)
}

func TestScoreResponsesCountMismatch(t *testing.T) {
	questions := []models.QuizQuestion{
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 0},
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 1},
	}

	_, _, err := ScoreResponses(questions, []int{0})
	require.ErrorIs(t, err, ErrResponseCountMismatch)
}

func TestScoreResponsesIndexOutOfRange(t *testing.T) {
	questions := []models.QuizQuestion{
		{Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 0},
	}

	_, _, err := ScoreResponses(questions, []int{5})
	require.ErrorIs(t, err, ErrAnswerIndexOutOfRange)

	_, _, err = ScoreResponses(questions, []int{-1})
	require.ErrorIs(t, err, ErrAnswerIndexOutOfRange)
}

func TestApplyQuizResultAdvancesProgress(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 4)
	enrollment := enrollStudent(t, db, student, fx.course)

	result := attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	require.True(t, result.Correct)
	require.Equal(t, 100.0, result.Score)
	require.Equal(t, 25.0, result.Progress)
	require.False(t, result.CompletedCourse)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.Equal(t, 25.0, stored.Progress)
	require.Equal(t, models.EnrollmentStatusInProgress, stored.Status)
	require.Len(t, stored.CompletedLessons, 1)
	require.Equal(t, fx.lessons[0].ID, *stored.LastLessonID)

	entry, ok := stored.QuizScores.Data()[strconv.FormatUint(uint64(fx.quizzes[0].ID), 10)]
	require.True(t, ok)
	require.True(t, entry.Correct)
	require.Equal(t, 100.0, entry.Score)

	var attempts int64
	require.NoError(t, db.Model(&models.QuizAttempt{}).Where("student_id = ?", student.ID).Count(&attempts).Error)
	require.EqualValues(t, 1, attempts)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, student.ID).Error)
	require.Contains(t, []string(refreshed.Badges), "Progress 25%")
}

func TestApplyQuizResultFailureKeepsProgress(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 4)
	enrollment := enrollStudent(t, db, student, fx.course)

	attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})

	result := attemptLesson(t, db, student, enrollment, fx, 1, []int{1, 0})
	require.False(t, result.Correct)
	require.Equal(t, 0.0, result.Score)
	require.Equal(t, 25.0, result.Progress)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.Equal(t, 25.0, stored.Progress)
	require.Len(t, stored.CompletedLessons, 1)

	// The failed attempt still lands in the score map
	entry, ok := stored.QuizScores.Data()[strconv.FormatUint(uint64(fx.quizzes[1].ID), 10)]
	require.True(t, ok)
	require.False(t, entry.Correct)
}

func TestApplyQuizResultRepeatedPassCountsOnce(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 4)
	enrollment := enrollStudent(t, db, student, fx.course)

	attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	result := attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	require.Equal(t, 25.0, result.Progress)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.Len(t, stored.CompletedLessons, 1)

	var attempts int64
	require.NoError(t, db.Model(&models.QuizAttempt{}).Where("student_id = ?", student.ID).Count(&attempts).Error)
	require.EqualValues(t, 2, attempts)
}

func TestApplyQuizResultRoundsProgress(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 3)
	enrollment := enrollStudent(t, db, student, fx.course)

	result := attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	require.Equal(t, 33.33, result.Progress)
}

func TestApplyQuizResultThreeOfFourLessons(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 4)
	enrollment := enrollStudent(t, db, student, fx.course)

	attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	attemptLesson(t, db, student, enrollment, fx, 1, []int{0, 1})
	result := attemptLesson(t, db, student, enrollment, fx, 2, []int{0, 1})
	require.Equal(t, 75.0, result.Progress)
	require.False(t, result.CompletedCourse)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.Equal(t, 75.0, stored.Progress)
	require.Len(t, stored.CompletedLessons, 3)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, student.ID).Error)
	require.Contains(t, []string(refreshed.Badges), "Progress 75%")
	require.NotContains(t, []string(refreshed.Badges), "Progress 100%")
}

func TestApplyQuizResultIgnoresUnapprovedLessons(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 1)
	fx.addLesson(t, db, creator, models.LessonStatusDraft)
	enrollment := enrollStudent(t, db, student, fx.course)

	// Passing the draft lesson's quiz moves nothing
	result := attemptLesson(t, db, student, enrollment, fx, 1, []int{0, 1})
	require.True(t, result.Correct)
	require.Equal(t, 0.0, result.Progress)
	require.False(t, result.CompletedCourse)

	// The approved lesson alone carries the whole course
	result = attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	require.Equal(t, 100.0, result.Progress)
	require.True(t, result.CompletedCourse)
}

func TestRecalcProgressNoApprovedLessons(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 2)
	enrollment := enrollStudent(t, db, student, fx.course)

	attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})

	// Pull every lesson out of the approved set; the completed list keeps
	// its entry but the formula has nothing to count against.
	require.NoError(t, db.Model(&models.Lesson{}).
		Where("course_id = ?", fx.course.ID).
		Update("status", models.LessonStatusDraft).Error)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.Len(t, stored.CompletedLessons, 1)

	progress, err := recalcProgress(db, &stored)
	require.NoError(t, err)
	require.Equal(t, 0.0, progress)

	// Recalculation reads only; the stored high-water mark stays put.
	var after models.Enrollment
	require.NoError(t, db.First(&after, enrollment.ID).Error)
	require.Equal(t, 50.0, after.Progress)
}

func TestCourseCompletionHappensOnce(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	sponsor := createTestUser(t, db, models.RoleSponsor)
	student := createTestUser(t, db, models.RoleStudent)
	createDonation(t, db, sponsor.ID, 100, time.Hour)
	fx := seedPublishedCourse(t, db, creator, 1)
	enrollment := enrollStudent(t, db, student, fx.course)

	result := attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	require.True(t, result.CompletedCourse)
	require.True(t, result.CertificateIssued)
	require.NotEmpty(t, result.CertificateSerial)
	require.Equal(t, 50, result.CreditsAwarded)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.Equal(t, models.EnrollmentStatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	require.Equal(t, 50, stored.CreditsAwarded)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, student.ID).Error)
	require.Equal(t, 50, refreshed.Credits)
	require.Contains(t, []string(refreshed.Badges), "Course Champion")
	require.Contains(t, []string(refreshed.Badges), "Progress 100%")

	remaining, err := PoolRemaining(db)
	require.NoError(t, err)
	require.Equal(t, 50, remaining)

	// A second pass of the same quiz must not repeat the completion effects
	result = attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	require.False(t, result.CompletedCourse)
	require.False(t, result.CertificateIssued)
	require.Zero(t, result.CreditsAwarded)

	var certificates int64
	require.NoError(t, db.Model(&models.Certificate{}).Where("student_id = ?", student.ID).Count(&certificates).Error)
	require.EqualValues(t, 1, certificates)

	require.NoError(t, db.First(&refreshed, student.ID).Error)
	require.Equal(t, 50, refreshed.Credits)
}

func TestCourseCompletionConcurrentAttempts(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	sponsor := createTestUser(t, db, models.RoleSponsor)
	student := createTestUser(t, db, models.RoleStudent)
	createDonation(t, db, sponsor.ID, 100, time.Hour)
	fx := seedPublishedCourse(t, db, creator, 1)
	enrollment := enrollStudent(t, db, student, fx.course)

	// Two racing submissions of the final quiz, each in its own transaction
	// with its own copies of the user and enrollment rows.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.Transaction(func(tx *gorm.DB) error {
				var u models.User
				if err := tx.First(&u, student.ID).Error; err != nil {
					return err
				}
				var e models.Enrollment
				if err := tx.First(&e, enrollment.ID).Error; err != nil {
					return err
				}
				_, err := ApplyQuizResult(tx, &u, &e, &fx.lessons[0], &fx.quizzes[0], fx.questions[0], []int{0, 1}, 50)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Exactly one of the attempts performed the completion effects
	var certificates int64
	require.NoError(t, db.Model(&models.Certificate{}).Where("student_id = ?", student.ID).Count(&certificates).Error)
	require.EqualValues(t, 1, certificates)

	var completionGrants int64
	require.NoError(t, db.Model(&models.CreditTransaction{}).
		Where("user_id = ? AND source = ?", student.ID, models.CreditSourceCompletion).
		Count(&completionGrants).Error)
	require.EqualValues(t, 1, completionGrants)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, student.ID).Error)
	require.Equal(t, 50, refreshed.Credits)

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.Equal(t, models.EnrollmentStatusCompleted, stored.Status)
	require.Equal(t, 100.0, stored.Progress)

	remaining, err := PoolRemaining(db)
	require.NoError(t, err)
	require.Equal(t, 50, remaining)
}

func TestCourseCompletionWithEmptyPool(t *testing.T) {
	db := setupTestDB(t)
	creator := createTestUser(t, db, models.RoleContentCreator)
	student := createTestUser(t, db, models.RoleStudent)
	fx := seedPublishedCourse(t, db, creator, 1)
	enrollment := enrollStudent(t, db, student, fx.course)

	result := attemptLesson(t, db, student, enrollment, fx, 0, []int{0, 1})
	require.True(t, result.CompletedCourse)
	require.True(t, result.CertificateIssued)
	require.Zero(t, result.CreditsAwarded)

	// Congratulations notification only, no credit message
	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", student.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Message, "Congratulations")
}

func TestUpdateBadgesAddsEachLabelOnce(t *testing.T) {
	db := setupTestDB(t)
	student := createTestUser(t, db, models.RoleStudent)

	require.NoError(t, UpdateBadges(db, student, 100, true))
	require.NoError(t, UpdateBadges(db, student, 100, true))

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, student.ID).Error)
	require.Len(t, refreshed.Badges, 5)

	seen := make(map[string]bool)
	for _, badge := range refreshed.Badges {
		require.False(t, seen[badge], "duplicate badge %q", badge)
		seen[badge] = true
	}
}
