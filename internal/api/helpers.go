package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/types"
)

// principal returns the user attached by the auth gate. Routes using it are
// always behind AuthMiddleware.
func principal(c *gin.Context) *models.User {
	user, _ := middleware.CurrentUser(c)
	return user
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		e := apperr.Validation("Invalid request body")
		e.Err = err
		return e
	}
	return nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formJSON decodes a form field that carries a JSON document. A missing field
// leaves dst untouched.
func formJSON(c *gin.Context, field string, dst interface{}) error {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		e := apperr.Validation("Invalid " + field + " field")
		e.Err = err
		return e
	}
	return nil
}

// formUpload opens the first file sent under field. It returns nil when the
// request has no such file. The caller closes the upload with closeUpload.
func formUpload(c *gin.Context, field string) (*types.Upload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		e := apperr.Validation("Invalid file upload")
		e.Err = err
		return nil, e
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal("Failed to read upload", err)
	}
	return &types.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, nil
}

func closeUpload(uploads ...*types.Upload) {
	for _, u := range uploads {
		if u == nil {
			continue
		}
		if closer, ok := u.Body.(io.Closer); ok {
			closer.Close()
		}
	}
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
