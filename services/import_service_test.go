package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBundle = `{
  "version": 1,
  "categories": [
    {"name": "Career", "color": "#3b82f6", "icon": "briefcase", "sort_order": 1}
  ],
  "achievements": [
    {
      "title": "Led the migration",
      "category": "Career",
      "date_achieved": "2024-02-01",
      "difficulty": "hard",
      "milestones": [
        {"title": "Plan", "completed_at": "2024-01-10T12:00:00Z", "sort_order": 0},
        {"title": "Cut over", "sort_order": 1}
      ]
    },
    {"title": "First 10k", "category": "Running", "status": "in-progress"}
  ]
}`

func TestImportBundle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewImportService(db, discardLogger())

	var b Bundle
	require.NoError(t, json.Unmarshal([]byte(sampleBundle), &b))

	result, err := svc.Import(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Categories: 1, Achievements: 2, Milestones: 2}, result)

	cats, err := NewCategoryService(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)

	list, err := NewAchievementService(db, nil, discardLogger()).List(ctx, AchievementFilter{Search: "migration"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 50, list[0].Progress)
	require.NotNil(t, list[0].CategoryName)
	assert.Equal(t, "Career", *list[0].CategoryName)
}

func TestImportIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewImportService(db, discardLogger())

	_, err := svc.Import(ctx, Bundle{
		Categories: []BundleCategory{{Name: "Career"}},
		Achievements: []BundleAchievement{
			{Title: "ok"},
			{Title: "bad", Status: "finished"},
		},
	})
	require.ErrorIs(t, err, ErrValidation)

	var achievements, categories int64
	require.NoError(t, db.Model(&models.Achievement{}).Count(&achievements).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.Zero(t, achievements)
	assert.Zero(t, categories)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	_, err := NewImportService(newTestDB(t), discardLogger()).Import(context.Background(), Bundle{Version: 99})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestDB(t)

	var b Bundle
	require.NoError(t, json.Unmarshal([]byte(sampleBundle), &b))
	_, err := NewImportService(src, discardLogger()).Import(ctx, b)
	require.NoError(t, err)

	exported, err := NewImportService(src, discardLogger()).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, BundleVersion, exported.Version)
	require.Len(t, exported.Achievements, 2)

	var migration *BundleAchievement
	for i := range exported.Achievements {
		if exported.Achievements[i].Title == "Led the migration" {
			migration = &exported.Achievements[i]
		}
	}
	require.NotNil(t, migration)
	assert.Equal(t, "Career", migration.Category)
	require.Len(t, migration.Milestones, 2)
	require.NotNil(t, migration.Milestones[0].CompletedAt)
	assert.True(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC).Equal(*migration.Milestones[0].CompletedAt))

	dst := newTestDB(t)
	result, err := NewImportService(dst, discardLogger()).Import(ctx, *exported)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Categories)
	assert.Equal(t, 2, result.Achievements)
	assert.Equal(t, 2, result.Milestones)
}
