package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Centsible"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"centsible"`
	}

	Auth struct {
		JWTSecret      string `envconfig:"JWT_SECRET"`
		AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	}

	Classifier struct {
		APIKey     string        `envconfig:"GEMINI_API_KEY"`
		Model      string        `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.0-flash"`
		Timeout    time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"30s"`
		MaxRetries int           `envconfig:"CLASSIFIER_MAX_RETRIES" default:"2"`
	}

	// Confidence strictly below LowConfidence, or a debit amount strictly
	// above ReviewAmountCents, sends a categorized transaction to review.
	Categorize struct {
		LowConfidence     float64 `envconfig:"LOW_CONFIDENCE" default:"0.80"`
		ReviewAmountCents int64   `envconfig:"REVIEW_AMOUNT_CENTS" default:"5000"`
	}

	Anomaly struct {
		NewVendorCents      int64 `envconfig:"ANOMALY_NEW_VENDOR_CENTS" default:"5000"`
		MissingReceiptCents int64 `envconfig:"ANOMALY_MISSING_RECEIPT_CENTS" default:"2500"`
		MissingReceiptLimit int   `envconfig:"ANOMALY_MISSING_RECEIPT_LIMIT" default:"20"`
		LookbackDays        int   `envconfig:"ANOMALY_LOOKBACK_DAYS" default:"30"`
	}

	Receipt struct {
		DriveFolderID string `envconfig:"RECEIPT_DRIVE_FOLDER"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// AllowedOriginList splits the comma-separated ALLOWED_ORIGINS value.
func (c *Config) AllowedOriginList() []string {
	parts := strings.Split(c.Auth.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}

	return origins
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
