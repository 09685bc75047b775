package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
)

type stubAuth struct {
	users map[string]*models.User
	err   error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid token")
}

func newGateRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(nil, false))
	whoami := func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(UserIDKey), "name": user.Name})
	}
	r.GET("/private", AuthMiddleware(auth), whoami)
	r.GET("/optional", OptionalAuth(auth), whoami)
	r.GET("/admin", AuthMiddleware(auth), RequireRole(models.RoleAdmin), whoami)
	return r
}

func get(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Asha", Roles: models.RoleSetOf(models.RoleUser)}
	admin := &models.User{ID: uuid.New(), Name: "Root", Roles: models.RoleSetOf(models.RoleUser, models.RoleAdmin)}
	r := newGateRouter(stubAuth{users: map[string]*models.User{"good": user, "admin": admin}})

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{"missing token", get("/private", ""), http.StatusUnauthorized, apperr.CodeNoToken},
		{"wrong scheme", func() *http.Request {
			req := get("/private", "")
			req.Header.Set("Authorization", "Basic abc")
			return req
		}(), http.StatusUnauthorized, apperr.CodeNoToken},
		{"bad token", get("/private", "bad"), http.StatusUnauthorized, apperr.CodeInvalidToken},
		{"valid token", get("/private", "good"), http.StatusOK, ""},
		{"not admin", get("/admin", "good"), http.StatusForbidden, apperr.CodeForbidden},
		{"admin", get("/admin", "admin"), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := serve(r, tt.req)
			assert.Equal(t, tt.status, rr.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}

	_, body := serve(r, get("/private", "good"))
	assert.Equal(t, user.ID.String(), body["id"])
	assert.Equal(t, "Asha", body["name"])
}

func TestAuthMiddlewareWrapsUnexpectedErrors(t *testing.T) {
	r := newGateRouter(stubAuth{err: errors.New("db down")})

	rr, body := serve(r, get("/private", "anything"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apperr.CodeAuthFailed, body["code"])
}

func TestOptionalAuth(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Asha"}
	r := newGateRouter(stubAuth{users: map[string]*models.User{"good": user}})

	_, body := serve(r, get("/optional", ""))
	assert.Equal(t, true, body["anonymous"])

	_, body = serve(r, get("/optional", "bad"))
	assert.Equal(t, true, body["anonymous"])

	_, body = serve(r, get("/optional", "good"))
	assert.Equal(t, "Asha", body["name"])
}
