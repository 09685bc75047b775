package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver    string
	DatabaseURL string

	// Redis configuration
	RedisURL         string
	RateLimitPerHour int

	// JWT configuration
	JWTSecret string

	// CORS / links
	CORSOrigins []string
	FrontendURL string

	Mail    MailConfig
	Storage StorageConfig
}

// MailConfig selects and configures the outbound email transport.
type MailConfig struct {
	Transport     string // smtp, kafka or log
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	FromEmail     string
	FromName      string
	OperatorEmail string
	KafkaBrokers  []string
	KafkaTopic    string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env, err := GetEnvironment()
	if err != nil {
		return nil, err
	}
	if env != Production {
		// a missing .env is fine; real environments set variables directly
		_ = godotenv.Load()
	}

	cfg := &Config{Env: env}

	cfg.ServerPort = lookup("SERVER_PORT", "server_port", "5000")
	cfg.ServerHost = lookup("SERVER_HOST", "server_host", "0.0.0.0")

	cfg.DBDriver = lookup("DB_DRIVER", "db_driver", "postgres")
	cfg.DatabaseURL = lookup("DATABASE_URL", "database_url", "")
	if cfg.DatabaseURL == "" && cfg.DBDriver == "sqlite" {
		cfg.DatabaseURL = "wallofhumanity.db"
	}

	cfg.RedisURL = lookup("REDIS_URL", "redis_url", "")
	limit, err := lookupInt("RATE_LIMIT_PER_HOUR", 30)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitPerHour = limit

	cfg.JWTSecret = lookup("JWT_SECRET", "jwt_secret", "")
	if cfg.JWTSecret == "" && (env == Development || env == Test) {
		cfg.JWTSecret = "dev-secret-change-me"
	}

	cfg.FrontendURL = lookup("FRONTEND_URL", "", "http://localhost:3000")
	cfg.CORSOrigins = splitList(lookup("CORS_ORIGINS", "", ""))

	cfg.Mail = MailConfig{
		Transport:     lookup("MAIL_TRANSPORT", "", ""),
		SMTPHost:      lookup("SMTP_HOST", "smtp_host", ""),
		SMTPPort:      lookup("SMTP_PORT", "smtp_port", "587"),
		SMTPUsername:  lookup("SMTP_USERNAME", "smtp_username", ""),
		SMTPPassword:  lookup("SMTP_PASSWORD", "smtp_password", ""),
		FromEmail:     lookup("EMAIL_FROM", "email_from", "no-reply@wallofhumanity.org"),
		FromName:      lookup("EMAIL_FROM_NAME", "email_from_name", "Wall of Humanity"),
		OperatorEmail: lookup("ADMIN_EMAIL", "admin_email", ""),
		KafkaBrokers:  splitList(lookup("KAFKA_BROKERS", "", "")),
		KafkaTopic:    lookup("KAFKA_TOPIC", "", "wallofhumanity.mail"),
	}
	if cfg.Mail.Transport == "" {
		cfg.Mail.Transport = "log"
		if cfg.Mail.SMTPHost != "" {
			cfg.Mail.Transport = "smtp"
		}
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}
	cfg.Storage = storage

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// lookup reads an environment variable, falling back to a Docker secret and
// then to def.
func lookup(envVar, secret, def string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	if secret != "" {
		if v := readSecret(secret); v != "" {
			return v
		}
	}
	return def
}

func lookupInt(envVar string, def int) (int, error) {
	raw := os.Getenv(envVar)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: envVar, Message: "must be an integer"}
	}
	return n, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
