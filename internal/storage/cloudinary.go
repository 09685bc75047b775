package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores files as Cloudinary assets and returns their secure URL.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(url string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage/cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Save(ctx context.Context, folder, filename string, r io.Reader, _ string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     strings.TrimSuffix(filename, path.Ext(filename)),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("storage/cloudinary: upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("storage/cloudinary: upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, ref string) error {
	publicID := cloudinaryPublicID(ref)
	if publicID == "" {
		return nil
	}
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("storage/cloudinary: destroy %s: %w", publicID, err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+/`)

// cloudinaryPublicID extracts "folder/name" from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/donations/abc.jpg.
func cloudinaryPublicID(ref string) string {
	_, rest, ok := strings.Cut(ref, "/upload/")
	if !ok {
		return ""
	}
	rest = versionSegment.ReplaceAllString(rest, "")
	return strings.TrimSuffix(rest, path.Ext(rest))
}
