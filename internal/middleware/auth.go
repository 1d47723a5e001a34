package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pirouette/internal/config"
	"pirouette/internal/models"
	"pirouette/internal/security"
)

const (
	ctxKeyCurrentUser = "current_user"
	ctxKeyClaims      = "session_claims"
	ctxKeyToken       = "session_token"
)

type UserGetter interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) bool
}

// RequireAuth gates protected routes on the session cookie. A missing,
// tampered, expired, or revoked token all produce the same 401 with the
// stale cookie cleared.
func RequireAuth(cfg *config.AppConfig, users UserGetter, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := resolveSessionUser(c, cfg, users, revocations); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
			return
		}

		c.Next()
	}
}

// AttachUser is the soft variant: it populates the current identity when a
// valid session cookie is present and proceeds anonymously otherwise.
func AttachUser(cfg *config.AppConfig, users UserGetter, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolveSessionUser(c, cfg, users, revocations)
		c.Next()
	}
}

func resolveSessionUser(c *gin.Context, cfg *config.AppConfig, users UserGetter, revocations RevocationChecker) (models.User, bool) {
	tokenStr, err := c.Cookie(cfg.Session.CookieName)
	if err != nil || tokenStr == "" {
		return models.User{}, false
	}

	claims, err := security.ParseSessionToken(tokenStr, cfg.Session.Secret)
	if err != nil {
		clearSessionCookie(c, cfg)
		return models.User{}, false
	}

	if revocations != nil && revocations.IsRevoked(c.Request.Context(), claims.ID) {
		clearSessionCookie(c, cfg)
		return models.User{}, false
	}

	user, err := users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		clearSessionCookie(c, cfg)
		return models.User{}, false
	}

	c.Set(ctxKeyCurrentUser, user)
	c.Set(ctxKeyClaims, *claims)
	c.Set(ctxKeyToken, tokenStr)
	return user, true
}

func clearSessionCookie(c *gin.Context, cfg *config.AppConfig) {
	c.SetCookie(cfg.Session.CookieName, "", -1, "/", cfg.Session.CookieDomain, cfg.Session.CookieSecure, true)
}

// CurrentUser returns the identity attached by RequireAuth or AttachUser.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(ctxKeyCurrentUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// SessionToken returns the raw cookie token for the current request.
func SessionToken(c *gin.Context) string {
	return c.GetString(ctxKeyToken)
}
