package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"udoy/config"
	"udoy/database"
	"udoy/models"

	"gorm.io/datatypes"
)

// Imports a course catalog CSV into the database. Each row describes one
// lesson together with the course and chapter it belongs to; courses and
// chapters are created on first sight and reused for later rows. Everything
// lands as a draft owned by the seed admin, so the normal review flow still
// applies before anything reaches students.
func main() {
	// Load config and connect to database
	config.LoadConfig()

	db, err := database.Connect(config.AppConfig)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	var creator models.User
	if err := db.Where("email = ?", config.AppConfig.SeedAdminEmail).First(&creator).Error; err != nil {
		log.Fatalf("Seed admin account not found, run the server once first: %v", err)
	}

	// Open CSV file
	file, err := os.Open("CourseCatalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Create CSV reader
	reader := csv.NewReader(file)

	// Read all records
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Skip header row
	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	// Courses and chapters repeat across rows; cache them by title
	courseCache := make(map[string]*models.Course)
	chapterCache := make(map[string]*models.Chapter)

	coursesCreated := 0
	chaptersCreated := 0
	lessonsInserted := 0
	lessonsUpdated := 0
	skipped := 0

	for i, row := range records[1:] {
		if i%100 == 0 {
			log.Printf("Processing row %d...", i+1)
		}

		courseTitle := getField(row, headerIndex, "courseTitle")
		chapterTitle := getField(row, headerIndex, "chapterTitle")
		lessonTitle := getField(row, headerIndex, "lessonTitle")

		// Skip if no course or lesson title
		if courseTitle == "" || lessonTitle == "" {
			skipped++
			continue
		}

		course, ok := courseCache[courseTitle]
		if !ok {
			course = &models.Course{}
			result := db.Where("title = ? AND creator_id = ?", courseTitle, creator.ID).First(course)
			if result.Error != nil {
				course = &models.Course{
					Title:       courseTitle,
					Description: getField(row, headerIndex, "courseDescription"),
					Subject:     getField(row, headerIndex, "courseSubject"),
					Level:       getField(row, headerIndex, "courseLevel"),
					CreatorID:   creator.ID,
					Status:      models.CourseStatusDraft,
				}
				if course.Level == "" {
					course.Level = "beginner"
				}
				if err := db.Create(course).Error; err != nil {
					log.Printf("Error inserting course %s: %v", courseTitle, err)
					skipped++
					continue
				}
				coursesCreated++
			}
			courseCache[courseTitle] = course
		}

		var chapterID *uint
		if chapterTitle != "" {
			chapterKey := courseTitle + "/" + chapterTitle
			chapter, ok := chapterCache[chapterKey]
			if !ok {
				chapter = &models.Chapter{}
				result := db.Where("course_id = ? AND title = ?", course.ID, chapterTitle).First(chapter)
				if result.Error != nil {
					sequence := parseInt(getField(row, headerIndex, "chapterSequence"))
					if sequence == 0 {
						// Next free slot within the course
						db.Model(&models.Chapter{}).
							Where("course_id = ?", course.ID).
							Select("COALESCE(MAX(sequence), 0)").
							Scan(&sequence)
						sequence++
					}
					chapter = &models.Chapter{
						CourseID: course.ID,
						Title:    chapterTitle,
						Sequence: sequence,
					}
					if err := db.Create(chapter).Error; err != nil {
						log.Printf("Error inserting chapter %s: %v", chapterTitle, err)
						skipped++
						continue
					}
					chaptersCreated++
				}
				chapterCache[chapterKey] = chapter
			}
			chapterID = &chapter.ID
		}

		lesson := models.Lesson{
			CourseID:    course.ID,
			ChapterID:   chapterID,
			Title:       lessonTitle,
			TextContent: getField(row, headerIndex, "lessonText"),
			VideoURL:    getField(row, headerIndex, "videoUrl"),
			AudioURL:    getField(row, headerIndex, "audioUrl"),
			Resources:   parseResources(getField(row, headerIndex, "resources")),
			CreatorID:   creator.ID,
			Status:      models.LessonStatusDraft,
		}

		// Check if lesson exists within the course by title
		var existing models.Lesson
		result := db.Where("course_id = ? AND title = ?", course.ID, lessonTitle).First(&existing)

		if result.Error != nil {
			// Insert new lesson
			if err := db.Create(&lesson).Error; err != nil {
				log.Printf("Error inserting lesson %s: %v", lessonTitle, err)
				continue
			}
			lessonsInserted++
		} else {
			// Update existing lesson
			existing.ChapterID = lesson.ChapterID
			existing.TextContent = lesson.TextContent
			existing.VideoURL = lesson.VideoURL
			existing.AudioURL = lesson.AudioURL
			existing.Resources = lesson.Resources

			if err := db.Save(&existing).Error; err != nil {
				log.Printf("Error updating lesson %s: %v", lessonTitle, err)
				continue
			}
			lessonsUpdated++
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Courses created: %d", coursesCreated)
	log.Printf("Chapters created: %d", chaptersCreated)
	log.Printf("Lessons inserted: %d", lessonsInserted)
	log.Printf("Lessons updated: %d", lessonsUpdated)
	log.Printf("Skipped: %d", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt converts string to int
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}

// parseResources splits a pipe separated list of links
func parseResources(s string) datatypes.JSONSlice[string] {
	if s == "" {
		return datatypes.JSONSlice[string]{}
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return datatypes.JSONSlice[string](out)
}
