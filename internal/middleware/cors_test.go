package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCORSConfiguredOrigins(t *testing.T) {
	r := corsRouter([]string{"https://wallofhumanity.org"})

	rr := preflight(r, "https://wallofhumanity.org")
	assert.Equal(t, "https://wallofhumanity.org", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	rr = preflight(r, "https://evil.example")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDefaultsToLocalhost(t *testing.T) {
	r := corsRouter(nil)

	rr := preflight(r, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = preflight(r, "https://wallofhumanity.org")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestIsLocalOrigin(t *testing.T) {
	assert.True(t, isLocalOrigin("http://127.0.0.1:3000"))
	assert.True(t, isLocalOrigin("http://frontend:5173"))
	assert.False(t, isLocalOrigin("https://localhost.evil.example"))
}
