package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pirouette/internal/middleware"
	"pirouette/internal/models"
)

type courseResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Level       string  `json:"level"`
	ImageKey    *string `json:"imageKey,omitempty"`
}

func toCourseResponse(course models.Course) courseResponse {
	return courseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Level:       string(course.Level),
		ImageKey:    course.ImageKey,
	}
}

type classResponse struct {
	ID            string `json:"id"`
	CourseID      string `json:"courseId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	DateFormatted string `json:"dateFormatted"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	TimeRange     string `json:"timeRange"`
	Capacity      int    `json:"capacity"`
	Instructor    string `json:"instructor"`
	Location      string `json:"location"`
}

func toClassResponse(class models.ClassDisplay) classResponse {
	return classResponse{
		ID:            class.ID,
		CourseID:      class.CourseID,
		Title:         class.Title,
		Description:   class.Description,
		Date:          class.Date.Format("2006-01-02"),
		DateFormatted: class.DateFormatted,
		StartTime:     class.StartTime,
		EndTime:       class.EndTime,
		TimeRange:     class.TimeRange,
		Capacity:      class.Capacity,
		Instructor:    class.Instructor,
		Location:      class.Location,
	}
}

func (h HandlerSet) ListCourses(c *gin.Context) {
	courses, err := h.stores.Courses.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, toCourseResponse(course))
	}
	c.JSON(http.StatusOK, gin.H{"courses": items})
}

func (h HandlerSet) CourseDetail(c *gin.Context) {
	detail, err := h.catalog.CourseWithClasses(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	classes := make([]classResponse, 0, len(detail.Classes))
	for _, class := range detail.Classes {
		classes = append(classes, toClassResponse(class))
	}
	c.JSON(http.StatusOK, gin.H{
		"course":  toCourseResponse(detail.Course),
		"classes": classes,
	})
}

// ClassDetail serves the booking affordance: seats left plus, for a signed-in
// viewer, whether they already hold a booking.
func (h HandlerSet) ClassDetail(c *gin.Context) {
	ctx := c.Request.Context()
	classID := c.Param("id")

	class, err := h.stores.Classes.GetByID(ctx, classID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	course, err := h.stores.Courses.GetByID(ctx, class.CourseID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	confirmed, err := h.bookings.ConfirmedSeats(ctx, classID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	spotsAvailable := class.Capacity - confirmed

	viewerHasBooked := false
	if viewer, ok := middleware.CurrentUser(c); ok {
		viewerHasBooked, err = h.stores.Bookings.HasUserBooked(ctx, viewer.ID, classID)
		if err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"class":           toClassResponse(class.Display()),
		"course":          toCourseResponse(course),
		"spotsAvailable":  spotsAvailable,
		"isFull":          spotsAvailable <= 0,
		"viewerHasBooked": viewerHasBooked,
	})
}

func (h HandlerSet) UpcomingClasses(c *gin.Context) {
	upcoming, err := h.catalog.UpcomingClasses(c.Request.Context(), 20)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(upcoming))
	for _, entry := range upcoming {
		items = append(items, gin.H{
			"class":  toClassResponse(entry.Class),
			"course": toCourseResponse(entry.Course),
		})
	}
	c.JSON(http.StatusOK, gin.H{"classes": items})
}
