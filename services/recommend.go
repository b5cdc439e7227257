package services

import (
	"udoy/models"

	"gorm.io/gorm"
)

// RecommendCourses suggests published courses the student has not enrolled
// in. Courses sharing a subject with the student's enrollments come first,
// then beginner courses, then whatever is most enrolled overall.
func RecommendCourses(db *gorm.DB, student *models.User, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = 5
	}

	var enrolledIDs []uint
	if err := db.Model(&models.Enrollment{}).
		Where("student_id = ?", student.ID).
		Pluck("course_id", &enrolledIDs).Error; err != nil {
		return nil, err
	}

	var subjects []string
	if len(enrolledIDs) > 0 {
		if err := db.Model(&models.Course{}).
			Distinct("subject").
			Where("id IN ?", enrolledIDs).
			Pluck("subject", &subjects).Error; err != nil {
			return nil, err
		}
	}

	picked := make([]models.Course, 0, limit)
	seen := make(map[uint]bool, limit)
	for _, id := range enrolledIDs {
		seen[id] = true
	}

	appendCourses := func(courses []models.Course) {
		for _, course := range courses {
			if len(picked) >= limit || seen[course.ID] {
				continue
			}
			picked = append(picked, course)
			seen[course.ID] = true
		}
	}

	// Pass 1: subject affinity
	if len(subjects) > 0 && len(picked) < limit {
		var courses []models.Course
		if err := db.Where("status = ? AND subject IN ?", models.CourseStatusPublished, subjects).
			Order("created_at desc").Limit(limit * 2).
			Find(&courses).Error; err != nil {
			return nil, err
		}
		appendCourses(courses)
	}

	// Pass 2: beginner friendly
	if len(picked) < limit {
		var courses []models.Course
		if err := db.Where("status = ? AND level = ?", models.CourseStatusPublished, "beginner").
			Order("created_at desc").Limit(limit * 2).
			Find(&courses).Error; err != nil {
			return nil, err
		}
		appendCourses(courses)
	}

	// Pass 3: most enrolled
	if len(picked) < limit {
		var courses []models.Course
		if err := db.Model(&models.Course{}).
			Select("courses.*, COUNT(enrollments.id) AS enrollment_count").
			Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL").
			Where("courses.status = ?", models.CourseStatusPublished).
			Group("courses.id").
			Order("enrollment_count DESC").
			Limit(limit * 2).
			Find(&courses).Error; err != nil {
			return nil, err
		}
		appendCourses(courses)
	}

	return picked, nil
}
