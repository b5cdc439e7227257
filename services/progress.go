package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"udoy/models"
	"udoy/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrResponseCountMismatch means the submission does not answer every question.
	ErrResponseCountMismatch = errors.New("response count does not match question count")
	// ErrAnswerIndexOutOfRange means a submitted index points outside a question's options.
	ErrAnswerIndexOutOfRange = errors.New("answer index out of range")
)

// Milestone badges in ascending order. The champion badge rides on top of
// them when a course is completed.
var progressBadges = []struct {
	Threshold float64
	Label     string
}{
	{25, "Progress 25%"},
	{50, "Progress 50%"},
	{75, "Progress 75%"},
	{100, "Progress 100%"},
}

const championBadge = "Course Champion"

// AttemptResult is what a graded quiz submission reports back
type AttemptResult struct {
	Correct           bool    `json:"correct"`
	Score             float64 `json:"score"`
	Progress          float64 `json:"progress"`
	CompletedCourse   bool    `json:"completed_course"`
	CertificateIssued bool    `json:"certificate_issued"`
	CertificateSerial string  `json:"certificate_serial,omitempty"`
	CreditsAwarded    int     `json:"credits_awarded"`
}

// ScoreResponses grades a submission. Every question must be answered with an
// in-range option index. Score is the percentage of questions answered with
// the correct option, rounded to two decimals; correct means a full score.
func ScoreResponses(questions []models.QuizQuestion, responses []int) (float64, bool, error) {
	if len(responses) != len(questions) {
		return 0, false, ErrResponseCountMismatch
	}
	if len(questions) == 0 {
		return 0, false, nil
	}

	matched := 0
	for i, q := range questions {
		if responses[i] < 0 || responses[i] >= len(q.Options) {
			return 0, false, fmt.Errorf("%w: question %d", ErrAnswerIndexOutOfRange, i+1)
		}
		if responses[i] == q.AnswerIndex {
			matched++
		}
	}

	score := utils.Round2(100 * float64(matched) / float64(len(questions)))
	return score, matched == len(questions), nil
}

// ApplyQuizResult grades a submission and rolls it into the enrollment:
// attempt history, latest-score map, completed-lesson set, progress, badges
// and, once coverage reaches 100%, the one-time completion effects. Runs
// inside the caller's transaction.
func ApplyQuizResult(tx *gorm.DB, student *models.User, enrollment *models.Enrollment, lesson *models.Lesson, quiz *models.Quiz, questions []models.QuizQuestion, responses []int, completionCredit int) (*AttemptResult, error) {
	score, correct, err := ScoreResponses(questions, responses)
	if err != nil {
		return nil, err
	}

	attempt := models.QuizAttempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		Responses: datatypes.JSONSlice[int](responses),
		Score:     score,
		Correct:   correct,
	}
	if err := tx.Create(&attempt).Error; err != nil {
		return nil, err
	}

	// Latest score per quiz rides on the enrollment
	scores := enrollment.QuizScores.Data()
	if scores == nil {
		scores = make(map[string]models.QuizScoreEntry)
	}
	scores[strconv.FormatUint(uint64(quiz.ID), 10)] = models.QuizScoreEntry{
		Score:       score,
		Correct:     correct,
		AttemptedAt: time.Now(),
	}
	enrollment.QuizScores = datatypes.NewJSONType(scores)

	if correct {
		if !containsUint(enrollment.CompletedLessons, lesson.ID) {
			enrollment.CompletedLessons = append(enrollment.CompletedLessons, lesson.ID)
		}
		lessonID := lesson.ID
		enrollment.LastLessonID = &lessonID
	}

	progress, err := recalcProgress(tx, enrollment)
	if err != nil {
		return nil, err
	}
	if progress > enrollment.Progress {
		enrollment.Progress = progress
	}

	// The stored progress keeps its high-water mark when a slower attempt
	// lands after a faster one.
	res := tx.Model(&models.Enrollment{}).
		Where("id = ? AND progress <= ?", enrollment.ID, enrollment.Progress).
		Updates(map[string]interface{}{
			"quiz_scores":       enrollment.QuizScores,
			"completed_lessons": enrollment.CompletedLessons,
			"last_lesson_id":    enrollment.LastLessonID,
			"progress":          enrollment.Progress,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if err := UpdateBadges(tx, student, enrollment.Progress, false); err != nil {
		return nil, err
	}

	result := &AttemptResult{Correct: correct, Score: score, Progress: enrollment.Progress}

	if enrollment.Progress >= 100 {
		if err := finalizeCompletion(tx, student, enrollment, completionCredit, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// finalizeCompletion flips the enrollment to completed and performs the
// one-time effects: certificate, pool-backed credit award, badges and
// notifications. The guarded status update makes sure exactly one of any
// concurrent attempts gets to perform them.
func finalizeCompletion(tx *gorm.DB, student *models.User, enrollment *models.Enrollment, completionCredit int, result *AttemptResult) error {
	now := time.Now()
	res := tx.Model(&models.Enrollment{}).
		Where("id = ? AND status <> ?", enrollment.ID, models.EnrollmentStatusCompleted).
		Updates(map[string]interface{}{
			"status":       models.EnrollmentStatusCompleted,
			"completed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Another attempt already completed this enrollment.
		return nil
	}

	enrollment.Status = models.EnrollmentStatusCompleted
	enrollment.CompletedAt = &now
	result.CompletedCourse = true

	var course models.Course
	if err := tx.First(&course, enrollment.CourseID).Error; err != nil {
		return err
	}

	// Certificate, backed by the unique (student, course) index
	var existing models.Certificate
	err := tx.Where("student_id = ? AND course_id = ?", student.ID, enrollment.CourseID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		certificate := models.Certificate{
			StudentID:    student.ID,
			CourseID:     enrollment.CourseID,
			SerialNumber: uuid.NewString(),
			IssuedAt:     now,
		}
		if err := tx.Create(&certificate).Error; err != nil {
			return err
		}
		result.CertificateIssued = true
		result.CertificateSerial = certificate.SerialNumber
	} else if err != nil {
		return err
	}

	granted, err := AwardCredits(tx, student, completionCredit, models.CreditSourceCompletion, "Course completion: "+course.Title)
	if err != nil {
		return err
	}
	if err := tx.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).
		Update("credits_awarded", granted).Error; err != nil {
		return err
	}
	enrollment.CreditsAwarded = granted
	result.CreditsAwarded = granted

	if err := UpdateBadges(tx, student, enrollment.Progress, true); err != nil {
		return err
	}

	if err := NotifyUser(tx, student.ID, fmt.Sprintf("Congratulations! You completed %q and earned your certificate.", course.Title)); err != nil {
		return err
	}
	if granted > 0 {
		if err := NotifyUser(tx, student.ID, fmt.Sprintf("You earned %d credits for completing %q.", granted, course.Title)); err != nil {
			return err
		}
	}

	courseID := enrollment.CourseID
	return RecordActivity(tx, &student.ID, "course_completed", "course", &courseID,
		fmt.Sprintf("credits awarded: %d", granted))
}

// UpdateBadges appends newly crossed milestone badges to the student's badge
// set. Labels are added at most once.
func UpdateBadges(tx *gorm.DB, student *models.User, progress float64, completed bool) error {
	owned := make(map[string]bool, len(student.Badges))
	for _, b := range student.Badges {
		owned[b] = true
	}

	changed := false
	for _, badge := range progressBadges {
		if progress >= badge.Threshold && !owned[badge.Label] {
			student.Badges = append(student.Badges, badge.Label)
			owned[badge.Label] = true
			changed = true
		}
	}
	if completed && !owned[championBadge] {
		student.Badges = append(student.Badges, championBadge)
		changed = true
	}

	if !changed {
		return nil
	}
	return tx.Model(&models.User{}).Where("id = ?", student.ID).
		Update("badges", student.Badges).Error
}

// recalcProgress computes the enrollment's coverage of the course's approved
// lessons as a percentage, two decimals. A course without approved lessons
// counts as zero.
func recalcProgress(db *gorm.DB, enrollment *models.Enrollment) (float64, error) {
	var approvedIDs []uint
	if err := db.Model(&models.Lesson{}).
		Where("course_id = ? AND status = ?", enrollment.CourseID, models.LessonStatusApproved).
		Pluck("id", &approvedIDs).Error; err != nil {
		return 0, err
	}
	if len(approvedIDs) == 0 {
		return 0, nil
	}

	approved := make(map[uint]bool, len(approvedIDs))
	for _, id := range approvedIDs {
		approved[id] = true
	}

	completed := 0
	for _, lessonID := range enrollment.CompletedLessons {
		if approved[lessonID] {
			completed++
		}
	}

	return utils.Round2(100 * float64(completed) / float64(len(approvedIDs))), nil
}

func containsUint(list []uint, value uint) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
