// Package service implements the business rules behind the REST API: account
// management, the donation lifecycle, and the NGO, volunteer and free-food
// directories.
package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/metrics"
	"github.com/wallofhumanity/backend/internal/storage"
	"github.com/wallofhumanity/backend/internal/types"
)

const defaultMaxUploadBytes = 5 << 20

// Deps carries the collaborators shared by every service.
type Deps struct {
	DB             *gorm.DB
	Store          storage.Store
	Notifier       Notifier
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = NopNotifier{}
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = defaultMaxUploadBytes
	}
	return d
}

var (
	plainText = bluemonday.StrictPolicy()
	validate  = validator.New()
)

// clean reduces user supplied text to trimmed plain text: tags are dropped
// and entities decoded, so "&lt;b&gt;" is stored as a literal "<b>". The
// result is not HTML-safe; anything rendering it as HTML must escape it.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.Validation(fmt.Sprintf("Invalid %s id", what))
	}
	return id, nil
}

// dbError maps a gorm error for a single-record lookup.
func dbError(err error, notFound, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(action, err)
}

// upload validates and stores f, returning its URL.
func (d Deps) upload(ctx context.Context, folder string, f *types.Upload, allowPDF bool) (string, error) {
	check := storage.ValidateImage
	if allowPDF {
		check = storage.ValidateDocument
	}
	if err := check(f.Filename, f.Size, d.MaxUploadBytes); err != nil {
		return "", apperr.Validation(err.Error())
	}
	if d.Store == nil {
		return "", apperr.Internal("File storage is not configured", nil)
	}

	url, err := d.Store.Save(ctx, folder, storage.NewFilename(f.Filename), f.Body, f.ContentType)
	d.Metrics.ObserveUpload(folder, err)
	if err != nil {
		return "", apperr.Internal("Failed to upload file", err)
	}
	return url, nil
}

// discard deletes stored files best-effort.
func (d Deps) discard(ctx context.Context, refs ...string) {
	if d.Store == nil {
		return
	}
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := d.Store.Delete(ctx, ref); err != nil {
			d.Logger.Warn("failed to delete stored file", zap.String("ref", ref), zap.Error(err))
		}
	}
}
