package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pirouette/internal/middleware"
)

type createBookingRequest struct {
	ClassID string `form:"classId" json:"classId"`
}

func (h HandlerSet) CreateBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBind(&req); err != nil || req.ClassID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classId is required"})
		return
	}

	if _, err := h.bookings.RequestBooking(c.Request.Context(), user.ID, req.ClassID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h HandlerSet) CancelBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
		return
	}

	err := h.bookings.RequestCancellation(c.Request.Context(), c.Param("id"), user.ID, user.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
