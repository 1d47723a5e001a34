package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pirouette/internal/ids"
	"pirouette/internal/models"
)

type courseRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Level       string `form:"level" json:"level"`
}

func validateCourseRequest(req courseRequest) map[string]string {
	errs := make(map[string]string)
	if req.Title == "" {
		errs["title"] = "Title is required"
	}
	if _, ok := parseCourseLevel(req.Level); !ok {
		errs["level"] = "Level must be beginner, intermediate, or advanced"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h HandlerSet) AdminCreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if errs := validateCourseRequest(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	level, _ := parseCourseLevel(req.Level)
	course := models.Course{
		ID:          ids.New(),
		Title:       req.Title,
		Description: req.Description,
		Level:       level,
	}

	if err := h.stores.Courses.Create(c.Request.Context(), course); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": toCourseResponse(course)})
}

func (h HandlerSet) AdminUpdateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if errs := validateCourseRequest(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	level, _ := parseCourseLevel(req.Level)
	course := models.Course{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Level:       level,
	}

	if err := h.stores.Courses.Update(c.Request.Context(), course); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": toCourseResponse(course)})
}

func (h HandlerSet) AdminDeleteCourse(c *gin.Context) {
	removed, err := h.catalog.DeleteCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AdminUploadCourseImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	key, err := h.catalog.UploadCourseImage(
		c.Request.Context(),
		c.Param("id"),
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageKey": key})
}
