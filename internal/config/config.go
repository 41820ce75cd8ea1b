package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var of the same name.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Database: postgres:// URL, sqlite://path or a bare file path
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (optional; enables reorder alerts)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth (optional single operator account)
	AuthEnabled        bool   `mapstructure:"AUTH_ENABLED"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	JWTRefreshHours    int    `mapstructure:"JWT_REFRESH_HOURS"`
	AdminUsername      string `mapstructure:"ADMIN_USERNAME"`
	AdminPasswordHash  string `mapstructure:"ADMIN_PASSWORD_HASH"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Alerts
	AlertEmailTo       string        `mapstructure:"ALERT_EMAIL_TO"`
	AlertSweepInterval time.Duration `mapstructure:"ALERT_SWEEP_INTERVAL"` // 0 disables the sweep

	// Business
	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	PDFStoragePath string `mapstructure:"PDF_STORAGE_PATH"`
	ReportTimezone string `mapstructure:"REPORT_TIMEZONE"`
	ShopName       string `mapstructure:"SHOP_NAME"`
	CurrencySymbol string `mapstructure:"CURRENCY_SYMBOL"`
}

var defaults = map[string]interface{}{
	"PORT":                 8000,
	"APP_ENV":              "development",
	"WORKER_POOL_SIZE":     2,
	"DATABASE_URL":         "sqlite://stockdesk.db",
	"REDIS_URL":            "",
	"AUTH_ENABLED":         false,
	"JWT_SECRET":           "",
	"JWT_EXPIRATION_HOURS": 8,
	"JWT_REFRESH_HOURS":    24,
	"ADMIN_USERNAME":       "admin",
	"ADMIN_PASSWORD_HASH":  "",
	"SMTP_HOST":            "",
	"SMTP_PORT":            587,
	"SMTP_USER":            "",
	"SMTP_PASSWORD":        "",
	"ALERT_EMAIL_TO":       "",
	"ALERT_SWEEP_INTERVAL": "0s",
	"UPLOAD_DIR":           "uploaded_images",
	"PDF_STORAGE_PATH":     "data/pdfs",
	"REPORT_TIMEZONE":      "UTC",
	"SHOP_NAME":            "StockDesk",
	"CURRENCY_SYMBOL":      "Rs.",
}

// Load reads configuration from environment variables (and an optional .env file).
func Load() (*Config, error) {
	// Optional .env file for local development; a missing file is fine
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so every key gets a default.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.AuthEnabled {
		if c.JWTSecret == "" {
			return errors.New("config: AUTH_ENABLED requires JWT_SECRET")
		}
		if c.AdminPasswordHash == "" {
			return errors.New("config: AUTH_ENABLED requires ADMIN_PASSWORD_HASH (see cmd/genhash)")
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.WorkerPoolSize < 1 {
		c.WorkerPoolSize = 1
	}
	return nil
}

// Location resolves REPORT_TIMEZONE; monthly report boundaries are computed in it.
func (c *Config) Location() (*time.Location, error) {
	if c.ReportTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("config: REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }
