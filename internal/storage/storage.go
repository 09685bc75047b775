// Package storage persists uploaded files and returns the URL clients use to
// fetch them. Drivers: local disk, S3-compatible object storage, Cloudinary.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wallofhumanity/backend/config"
)

// Folders used by the services.
const (
	FolderDonations    = "donations"
	FolderAvatars      = "avatars"
	FolderNGOLogos     = "ngo-logos"
	FolderCertificates = "ngo-certificates"
	FolderFreeFood     = "free-food"
)

// Store saves and deletes uploaded files.
type Store interface {
	// Save writes r under folder/filename and returns its public URL.
	Save(ctx context.Context, folder, filename string, r io.Reader, contentType string) (string, error)
	// Delete removes a file previously returned by Save. Unknown refs are ignored.
	Delete(ctx context.Context, ref string) error
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// UploadError reports a rejected upload.
type UploadError struct {
	Filename string
	Reason   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q rejected: %s", e.Filename, e.Reason)
}

// ValidateImage checks the extension and size of an image upload.
func ValidateImage(filename string, size, max int64) error {
	return validate(filename, size, max, false)
}

// ValidateDocument is ValidateImage that also accepts PDF files.
func ValidateDocument(filename string, size, max int64) error {
	return validate(filename, size, max, true)
}

func validate(filename string, size, max int64, allowPDF bool) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] && !(allowPDF && ext == ".pdf") {
		allowed := "jpg, jpeg, png, gif, webp"
		if allowPDF {
			allowed += ", pdf"
		}
		return &UploadError{Filename: filename, Reason: "only " + allowed + " files are allowed"}
	}
	if max > 0 && size > max {
		return &UploadError{Filename: filename, Reason: fmt.Sprintf("file exceeds %d bytes", max)}
	}
	return nil
}

// NewFilename returns a collision-free name that keeps the original extension.
func NewFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}

// New builds the driver selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.BaseURL)
	case "s3":
		return NewS3(ctx, cfg)
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryURL)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}
