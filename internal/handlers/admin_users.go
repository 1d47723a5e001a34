package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pirouette/internal/middleware"
	"pirouette/internal/models"
	"pirouette/internal/repository"
	"pirouette/internal/security"
	"pirouette/internal/service"
)

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	users, err := h.stores.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": items})
}

type adminCreateUserRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	AsAdmin  bool   `form:"asAdmin" json:"asAdmin"`
}

func (h HandlerSet) AdminCreateUser(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if errs := validateRegistration(registerRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.Password,
	}); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		AsAdmin:  req.AsAdmin,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(result.User)})
}

type adminUpdateUserRequest struct {
	Name     *string `form:"name" json:"name"`
	Email    *string `form:"email" json:"email"`
	Password *string `form:"password" json:"password"`
}

func (h HandlerSet) AdminUpdateUser(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": "Please enter a valid email address"}})
			return
		}
		req.Email = &email
	}

	params := repository.UpdateUserParams{
		ID:    c.Param("id"),
		Name:  req.Name,
		Email: req.Email,
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"password": "Password must be at least 8 characters"}})
			return
		}
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			h.respondError(c, err)
			return
		}
		params.PasswordHash = hash
	}

	user, err := h.stores.Users.Update(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// AdminToggleRole flips a user between member and admin. Admins cannot
// demote themselves, which keeps at least one admin reachable.
func (h HandlerSet) AdminToggleRole(c *gin.Context) {
	requester, _ := middleware.CurrentUser(c)
	targetID := c.Param("id")
	if requester.ID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change own role"})
		return
	}

	ctx := c.Request.Context()
	target, err := h.stores.Users.GetByID(ctx, targetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	newRole := models.UserRoleAdmin
	if target.IsAdmin() {
		newRole = models.UserRoleUser
	}

	user, err := h.stores.Users.Update(ctx, repository.UpdateUserParams{
		ID:   targetID,
		Role: &newRole,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) AdminDeleteUser(c *gin.Context) {
	requester, _ := middleware.CurrentUser(c)
	targetID := c.Param("id")
	if requester.ID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete own account"})
		return
	}

	removed, err := h.stores.Users.Delete(c.Request.Context(), targetID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
