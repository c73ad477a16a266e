// config/config.go - Runtime configuration
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageS3    = "s3"

	// devJWTSecret is only ever used when APP_ENV=development and no secret is set.
	devJWTSecret = "portfolio-development-secret-do-not-use-in-production"

	minSecretLength = 32
)

type DBConfig struct {
	Driver string `env:"DB_DRIVER" env-default:"sqlite"`
	Path   string `env:"DATABASE_PATH" env-default:"./data/portfolio.db"`
	URL    string `env:"DATABASE_URL"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" env-default:"24h"`
	BcryptCost    int           `env:"BCRYPT_COST" env-default:"10"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
}

type RateLimitConfig struct {
	Enabled     bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	MaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" env-default:"300"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"15m"`
	AuthMax     int           `env:"AUTH_RATE_LIMIT_MAX" env-default:"10"`
	AuthWindow  time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" env-default:"5m"`
}

type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER" env-default:"local"`
	UploadDir   string `env:"UPLOAD_DIR" env-default:"./data/uploads"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// Config keeps every setting the server reads from the environment.
type Config struct {
	AppEnv      string `env:"APP_ENV" env-default:"development"`
	Port        string `env:"PORT" env-default:"3001"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"INFO"`
	FrontendURL string `env:"FRONTEND_URL" env-default:"http://localhost:5173"`

	DB        DBConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig

	// UsingDevSecret reports that JWT_SECRET was unset and the development
	// fallback was applied.
	UsingDevSecret bool
}

// Load reads the configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, EnvDevelopment)
}

// Validate normalizes the config and fails on settings the server cannot run with.
func (c *Config) Validate() error {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Auth.JWTSecret = strings.TrimSpace(c.Auth.JWTSecret)

	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET must be set outside development")
		}
		c.Auth.JWTSecret = devJWTSecret
		c.UsingDevSecret = true
	}
	if !c.IsDevelopment() && len(c.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long", minSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.DB.Path) == "" {
			return errors.New("DATABASE_PATH is required for sqlite")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DB.URL) == "" {
			return errors.New("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.Storage.Driver {
	case StorageLocal:
		if strings.TrimSpace(c.Storage.UploadDir) == "" {
			return errors.New("UPLOAD_DIR is required for local storage")
		}
	case StorageS3:
		if strings.TrimSpace(c.Storage.S3Bucket) == "" {
			return errors.New("S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if (c.Auth.AdminUsername == "") != (c.Auth.AdminPassword == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}
