package services

import (
	"context"
	"testing"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateDefaults(t *testing.T) {
	svc := NewCategoryService(newTestDB(t))

	c, err := svc.Create(context.Background(), CategoryInput{Name: "  Music  "})
	require.NoError(t, err)
	assert.Equal(t, "Music", c.Name)
	assert.Equal(t, models.DefaultCategoryColor, c.Color)
	assert.Equal(t, models.DefaultCategoryIcon, c.Icon)
	assert.Nil(t, c.Description)

	_, err = svc.Create(context.Background(), CategoryInput{Name: " "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryListOrderAndCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cats := NewCategoryService(db)
	achievements := NewAchievementService(db, nil, discardLogger())

	two, three := 2, 1
	b, err := cats.Create(ctx, CategoryInput{Name: "Beta", SortOrder: &two})
	require.NoError(t, err)
	a, err := cats.Create(ctx, CategoryInput{Name: "Alpha", SortOrder: &two})
	require.NoError(t, err)
	_, err = cats.Create(ctx, CategoryInput{Name: "Zulu", SortOrder: &three})
	require.NoError(t, err)

	mustAchievement(t, achievements, AchievementInput{Title: "one", CategoryID: models.Some(b.ID)})
	mustAchievement(t, achievements, AchievementInput{Title: "two", CategoryID: models.Some(b.ID)})
	mustAchievement(t, achievements, AchievementInput{Title: "three", CategoryID: models.Some(a.ID)})
	mustAchievement(t, achievements, AchievementInput{Title: "loose"})

	list, err := cats.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "Zulu", list[0].Name)
	assert.Equal(t, int64(0), list[0].AchievementCount)
	assert.Equal(t, "Alpha", list[1].Name)
	assert.Equal(t, int64(1), list[1].AchievementCount)
	assert.Equal(t, "Beta", list[2].Name)
	assert.Equal(t, int64(2), list[2].AchievementCount)
}

func TestCategoryGetIncludesAchievements(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cats := NewCategoryService(db)
	achievements := NewAchievementService(db, nil, discardLogger())

	c := mustCategory(t, cats, "Career")
	mustAchievement(t, achievements, AchievementInput{Title: "old", CategoryID: models.Some(c.ID), DateAchieved: strPtr("2020-01-01")})
	mustAchievement(t, achievements, AchievementInput{Title: "new", CategoryID: models.Some(c.ID), DateAchieved: strPtr("2024-01-01")})

	detail, err := cats.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Career", detail.Category.Name)
	require.Len(t, detail.Achievements, 2)
	assert.Equal(t, "new", detail.Achievements[0].Title)
	assert.Equal(t, "old", detail.Achievements[1].Title)

	_, err = cats.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newTestDB(t))
	c := mustCategory(t, svc, "Career")

	order := 7
	updated, err := svc.Update(ctx, c.ID, CategoryInput{
		Name:        "Work",
		Description: models.Some("day job"),
		Color:       strPtr("#000000"),
		SortOrder:   &order,
	})
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "day job", *updated.Description)
	assert.Equal(t, "#000000", updated.Color)
	assert.Equal(t, models.DefaultCategoryIcon, updated.Icon)
	assert.Equal(t, 7, updated.SortOrder)

	_, err = svc.Update(ctx, c.ID, CategoryInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 9999, CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryDeleteGuard(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cats := NewCategoryService(db)
	achievements := NewAchievementService(db, nil, discardLogger())

	used := mustCategory(t, cats, "Used")
	empty := mustCategory(t, cats, "Empty")
	mustAchievement(t, achievements, AchievementInput{Title: "a", CategoryID: models.Some(used.ID)})

	err := cats.Delete(ctx, used.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Cannot delete category with achievements", Message(err))

	require.NoError(t, cats.Delete(ctx, empty.ID))
	_, err = cats.Get(ctx, empty.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, cats.Delete(ctx, empty.ID), ErrNotFound)
}

func TestFindOrCreateByName(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newTestDB(t))

	first, err := svc.FindOrCreateByName(ctx, "Hobbies")
	require.NoError(t, err)
	second, err := svc.FindOrCreateByName(ctx, "Hobbies")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
