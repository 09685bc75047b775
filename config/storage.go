package config

import "strconv"

const defaultUploadMaxBytes = 5 << 20

// StorageConfig selects the object storage driver used for uploaded files.
type StorageConfig struct {
	Driver         string // local, s3 or cloudinary
	UploadDir      string
	BaseURL        string
	MaxUploadBytes int64

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	CloudinaryURL string
}

func loadStorageConfig() (StorageConfig, error) {
	sc := StorageConfig{
		Driver:        lookup("STORAGE_DRIVER", "", "local"),
		UploadDir:     lookup("UPLOAD_DIR", "", "uploads"),
		BaseURL:       lookup("UPLOAD_BASE_URL", "", "/uploads"),
		S3Bucket:      lookup("S3_BUCKET", "s3_bucket", ""),
		S3Region:      lookup("S3_REGION", "", "us-east-1"),
		S3Endpoint:    lookup("S3_ENDPOINT", "", ""),
		S3AccessKey:   lookup("S3_ACCESS_KEY", "s3_access_key", ""),
		S3SecretKey:   lookup("S3_SECRET_KEY", "s3_secret_key", ""),
		S3PublicURL:   lookup("S3_PUBLIC_URL", "", ""),
		CloudinaryURL: lookup("CLOUDINARY_URL", "cloudinary_url", ""),
	}

	sc.MaxUploadBytes = defaultUploadMaxBytes
	if raw := lookup("UPLOAD_MAX_BYTES", "", ""); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return sc, ValidationError{Field: "UPLOAD_MAX_BYTES", Message: "must be a positive integer"}
		}
		sc.MaxUploadBytes = n
	}
	return sc, nil
}
