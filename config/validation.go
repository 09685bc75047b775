package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			add("DATABASE_URL", "is required for the postgres driver")
		}
	case "sqlite":
		if cfg.Env == Production {
			add("DB_DRIVER", "sqlite is not supported in production")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	switch cfg.Mail.Transport {
	case "log":
	case "smtp":
		if cfg.Mail.SMTPHost == "" {
			add("SMTP_HOST", "is required for the smtp transport")
		}
	case "kafka":
		if len(cfg.Mail.KafkaBrokers) == 0 {
			add("KAFKA_BROKERS", "is required for the kafka transport")
		}
	default:
		add("MAIL_TRANSPORT", fmt.Sprintf("unsupported transport %q", cfg.Mail.Transport))
	}

	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.UploadDir == "" {
			add("UPLOAD_DIR", "is required for the local driver")
		}
	case "s3":
		if cfg.Storage.S3Bucket == "" {
			add("S3_BUCKET", "is required for the s3 driver")
		}
	case "cloudinary":
		if cfg.Storage.CloudinaryURL == "" {
			add("CLOUDINARY_URL", "is required for the cloudinary driver")
		}
	default:
		add("STORAGE_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.Storage.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
