package models

import "time"

type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID          string
	Title       string
	Description string
	Level       CourseLevel
	ImageKey    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
