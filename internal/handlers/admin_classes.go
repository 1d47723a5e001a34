package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pirouette/internal/ids"
	"pirouette/internal/models"
)

type classRequest struct {
	CourseID    string `form:"courseId" json:"courseId"`
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Date        string `form:"date" json:"date"`
	StartTime   string `form:"startTime" json:"startTime"`
	EndTime     string `form:"endTime" json:"endTime"`
	Capacity    int    `form:"capacity" json:"capacity"`
	Instructor  string `form:"instructor" json:"instructor"`
	Location    string `form:"location" json:"location"`
}

func (h HandlerSet) parseClassRequest(c *gin.Context) (models.Class, bool) {
	var req classRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return models.Class{}, false
	}

	errs := make(map[string]string)
	if req.CourseID == "" {
		errs["courseId"] = "Course is required"
	}
	if req.Title == "" {
		errs["title"] = "Title is required"
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		errs["date"] = "Date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		errs["startTime"] = "Start time must be HH:MM"
	}
	if _, err := time.Parse("15:04", req.EndTime); err != nil {
		errs["endTime"] = "End time must be HH:MM"
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = models.DefaultClassCapacity
	}
	if capacity < 0 {
		errs["capacity"] = "Capacity must be a positive number"
	}

	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return models.Class{}, false
	}

	return models.Class{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    capacity,
		Instructor:  req.Instructor,
		Location:    req.Location,
	}, true
}

func (h HandlerSet) AdminCreateClass(c *gin.Context) {
	class, ok := h.parseClassRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.stores.Courses.GetByID(ctx, class.CourseID); err != nil {
		h.respondError(c, err)
		return
	}

	class.ID = ids.New()
	if err := h.stores.Classes.Create(ctx, class); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"class": toClassResponse(class.Display())})
}

func (h HandlerSet) AdminUpdateClass(c *gin.Context) {
	class, ok := h.parseClassRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.stores.Courses.GetByID(ctx, class.CourseID); err != nil {
		h.respondError(c, err)
		return
	}

	class.ID = c.Param("id")
	if err := h.stores.Classes.Update(ctx, class); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": toClassResponse(class.Display())})
}

func (h HandlerSet) AdminDeleteClass(c *gin.Context) {
	removed, err := h.stores.Classes.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
