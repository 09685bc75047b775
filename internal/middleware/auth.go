package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
)

// Context keys set by the auth gate.
const (
	UserKey   = "user"
	UserIDKey = "user_id"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// resolved user in the context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			RespondError(c, apperr.Unauthorized(apperr.CodeNoToken, "No token, authorization denied"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !apperr.Is(err, apperr.KindUnauthorized) {
				e := apperr.Unauthorized(apperr.CodeAuthFailed, "Authentication failed")
				e.Err = err
				err = e
			}
			RespondError(c, err)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and continues
// anonymously otherwise.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.HasRole(role) {
			RespondError(c, apperr.Forbidden("Requires the "+role.String()+" role"))
			return
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(UserKey, user)
	c.Set(UserIDKey, user.ID.String())
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
