package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pirouette/internal/models"
)

func (h HandlerSet) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.stores.Users.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	courses, err := h.stores.Courses.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	classes, err := h.stores.Classes.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userCount":   len(users),
		"courseCount": len(courses),
		"classCount":  len(classes),
	})
}

// AdminClassRoster lists a class's bookings with the participant resolved.
// Bookings from since-deleted users stay in the list with a blank name.
func (h HandlerSet) AdminClassRoster(c *gin.Context) {
	ctx := c.Request.Context()
	classID := c.Param("id")

	class, err := h.stores.Classes.GetByID(ctx, classID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	bookings, err := h.stores.Bookings.ListByClass(ctx, classID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	roster := make([]gin.H, 0, len(bookings))
	for _, booking := range bookings {
		entry := gin.H{
			"bookingId": booking.ID,
			"status":    string(booking.Status),
			"createdAt": booking.CreatedAt,
		}
		if user, err := h.stores.Users.GetByID(ctx, booking.UserID); err == nil {
			entry["user"] = toUserResponse(user)
		}
		roster = append(roster, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"class":  toClassResponse(class.Display()),
		"roster": roster,
	})
}

func (h HandlerSet) AdminDeleteBooking(c *gin.Context) {
	removed, err := h.stores.Bookings.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseCourseLevel(level string) (models.CourseLevel, bool) {
	switch models.CourseLevel(level) {
	case models.CourseLevelBeginner, models.CourseLevelIntermediate, models.CourseLevelAdvanced:
		return models.CourseLevel(level), true
	}
	return "", false
}
