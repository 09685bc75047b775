package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wallofhumanity/backend/internal/apperr"
)

// RespondError records err on the context and stops the chain. ErrorHandler
// renders it.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Recovery turns panics anywhere later in the chain into a JSON 500. It must
// be the first middleware. exposeDetail adds the panic value under "error".
func Recovery(logger *zap.Logger, exposeDetail bool) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					render(c, apperr.Internal("Internal server error", fmt.Errorf("panic: %v", r)), exposeDetail)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler renders errors recorded with RespondError as JSON.
// exposeDetail adds the underlying cause under "error" and must be false in
// production.
func ErrorHandler(logger *zap.Logger, exposeDetail bool) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		e := apperr.As(c.Errors.Last().Err)
		if e.Kind == apperr.KindInternal {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("code", e.Code),
				zap.Error(e),
			)
		}
		render(c, e, exposeDetail)
	}
}

func render(c *gin.Context, e *apperr.Error, exposeDetail bool) {
	body := gin.H{}
	for k, v := range e.Details {
		body[k] = v
	}
	body["message"] = e.Message
	if e.Code != "" {
		body["code"] = e.Code
	}
	if exposeDetail && e.Err != nil {
		body["error"] = e.Err.Error()
	}
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, body)
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
}
