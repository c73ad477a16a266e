package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "./data/portfolio.db", cfg.DB.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.UsingDevSecret)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "changeme")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.UsingDevSecret)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			AppEnv: EnvProduction,
			DB:     DBConfig{Driver: DriverSQLite, Path: "portfolio.db"},
			Auth: AuthConfig{
				JWTSecret: "0123456789abcdef0123456789abcdef",
				TokenTTL:  24 * time.Hour,
			},
			Storage: StorageConfig{Driver: StorageLocal, UploadDir: "uploads"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing secret in production",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "JWT_SECRET must be set",
		},
		{
			name:    "short secret in production",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "short" },
			wantErr: "at least 32 characters",
		},
		{
			name:   "short secret allowed in development",
			mutate: func(c *Config) { c.AppEnv = EnvDevelopment; c.Auth.JWTSecret = "short" },
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.DB.Driver = DriverPostgres },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.DB.Driver = "mysql" },
			wantErr: "unsupported DB_DRIVER",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Storage.Driver = StorageS3 },
			wantErr: "S3_BUCKET",
		},
		{
			name:    "admin username without password",
			mutate:  func(c *Config) { c.Auth.AdminUsername = "admin" },
			wantErr: "must be set together",
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.Auth.TokenTTL = 0 },
			wantErr: "TOKEN_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
