package models

import (
	"fmt"
	"time"
)

const DefaultClassCapacity = 20

// Class is a single scheduled session of a Course. StartTime and EndTime are
// local "HH:MM" strings; the date carries no timezone semantics beyond the
// server's locale.
type Class struct {
	ID          string
	CourseID    string
	Title       string
	Description string
	Date        time.Time
	StartTime   string
	EndTime     string
	Capacity    int
	Instructor  string
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClassDisplay carries the stored fields plus derived human-readable strings.
type ClassDisplay struct {
	Class
	DateFormatted string
	TimeRange     string
}

// Display derives presentation strings without mutating the record.
func (c Class) Display() ClassDisplay {
	d := ClassDisplay{Class: c}
	if !c.Date.IsZero() {
		d.DateFormatted = c.Date.Format("Monday, January 2, 2006")
	}
	if c.StartTime != "" && c.EndTime != "" {
		d.TimeRange = fmt.Sprintf("%s - %s", c.StartTime, c.EndTime)
	}
	return d
}
