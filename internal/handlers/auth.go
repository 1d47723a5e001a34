package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	"pirouette/internal/middleware"
	"pirouette/internal/models"
	"pirouette/internal/service"
)

type registerRequest struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

// validateRegistration mirrors the registration form rules; messages are
// keyed by field so the form can render them inline.
func validateRegistration(req registerRequest) map[string]string {
	errs := make(map[string]string)
	if len(strings.TrimSpace(req.Name)) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}
	if !validEmail(req.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if len(req.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}
	if req.Password != req.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil && addr.Address == strings.TrimSpace(email)
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	if _, loggedIn := middleware.CurrentUser(c); loggedIn {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if errs := validateRegistration(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	c.Redirect(http.StatusFound, "/dashboard")
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Redirect string `form:"redirect" json:"redirect"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	if !validEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)

	target := req.Redirect
	if target == "" || !strings.HasPrefix(target, "/") {
		target = "/dashboard"
	}
	c.Redirect(http.StatusFound, target)
}

func (h HandlerSet) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		h.auth.Logout(c.Request.Context(), token)
	}

	h.setSessionCookie(c, "")
	c.Redirect(http.StatusFound, "/")
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.Session.TTL.Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		token,
		maxAge,
		"/",
		h.cfg.Session.CookieDomain,
		h.cfg.Session.CookieSecure,
		true,
	)
}
