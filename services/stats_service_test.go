package services

import (
	"context"
	"testing"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSummary(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	career := mustCategory(t, NewCategoryService(db), "Career")
	achievements := NewAchievementService(db, nil, discardLogger())

	a := mustAchievement(t, achievements, AchievementInput{Title: "a", CategoryID: models.Some(career.ID), Difficulty: models.Some("hard")})
	mustAchievement(t, achievements, AchievementInput{Title: "b", CategoryID: models.Some(career.ID), Status: strPtr("pending")})
	mustAchievement(t, achievements, AchievementInput{Title: "c"})

	m, err := achievements.AddMilestone(ctx, a.ID, MilestoneInput{Title: strPtr("one")})
	require.NoError(t, err)
	_, err = achievements.AddMilestone(ctx, a.ID, MilestoneInput{Title: strPtr("two")})
	require.NoError(t, err)
	_, err = achievements.ToggleMilestone(ctx, a.ID, m.ID)
	require.NoError(t, err)

	stats, err := NewStatsService(db).Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalAchievements)
	assert.Equal(t, int64(2), stats.ByStatus["completed"])
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
	assert.Equal(t, int64(0), stats.ByStatus["in-progress"])
	assert.Equal(t, int64(1), stats.ByDifficulty["hard"])
	assert.Equal(t, int64(2), stats.ByDifficulty["unset"])

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Career", stats.ByCategory[0].Name)
	assert.Equal(t, int64(2), stats.ByCategory[0].Count)
	assert.Equal(t, "Uncategorized", stats.ByCategory[1].Name)
	assert.Nil(t, stats.ByCategory[1].CategoryID)

	assert.Equal(t, MilestoneTotals{Total: 2, Completed: 1}, stats.Milestones)
	assert.Len(t, stats.Recent, 3)
}

func TestStatsSummaryEmpty(t *testing.T) {
	stats, err := NewStatsService(newTestDB(t)).Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAchievements)
	assert.Empty(t, stats.ByCategory)
	assert.Empty(t, stats.Recent)
}
