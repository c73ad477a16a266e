package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"portfolio/config"
	"portfolio/database"
	"portfolio/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-0123456789abcdef0123456789"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "portfolio.db"),
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestAuth(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	svc, err := NewAuthService(db, AuthOptions{Secret: testSecret, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func mustCategory(t *testing.T, svc *CategoryService, name string) *models.Category {
	t.Helper()
	c, err := svc.Create(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func mustAchievement(t *testing.T, svc *AchievementService, in AchievementInput) *models.AchievementView {
	t.Helper()
	a, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return a
}
