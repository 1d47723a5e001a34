package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pirouette/internal/middleware"
)

func (h HandlerSet) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
		return
	}

	if user.IsAdmin() {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	ctx := c.Request.Context()

	schedule, err := h.bookings.UserSchedule(ctx, user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	upcoming, err := h.catalog.UpcomingClasses(ctx, 10)
	if err != nil {
		h.respondError(c, err)
		return
	}

	bookings := make([]gin.H, 0, len(schedule))
	for _, detail := range schedule {
		bookings = append(bookings, gin.H{
			"id":        detail.Booking.ID,
			"status":    string(detail.Booking.Status),
			"createdAt": detail.Booking.CreatedAt,
			"class":     toClassResponse(detail.Class),
			"course":    toCourseResponse(detail.Course),
		})
	}

	upcomingItems := make([]gin.H, 0, len(upcoming))
	for _, entry := range upcoming {
		upcomingItems = append(upcomingItems, gin.H{
			"class":  toClassResponse(entry.Class),
			"course": toCourseResponse(entry.Course),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            toUserResponse(user),
		"bookings":        bookings,
		"upcomingClasses": upcomingItems,
	})
}
