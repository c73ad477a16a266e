// database/seed.go - First-run bootstrap data
package database

import (
	"context"
	"fmt"

	"portfolio/models"

	"gorm.io/gorm"
)

// DefaultCategories are created on first run when the categories table is empty.
var DefaultCategories = []models.Category{
	{Name: "Career", Color: "#3b82f6", Icon: "briefcase", SortOrder: 1},
	{Name: "Education", Color: "#10b981", Icon: "graduation-cap", SortOrder: 2},
	{Name: "Personal", Color: "#f59e0b", Icon: "heart", SortOrder: 3},
	{Name: "Skills", Color: "#8b5cf6", Icon: "zap", SortOrder: 4},
	{Name: "Projects", Color: "#ef4444", Icon: "folder", SortOrder: 5},
}

// SeedDefaultCategories inserts DefaultCategories if no category exists yet and
// reports how many rows were created.
func SeedDefaultCategories(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	seed := make([]models.Category, len(DefaultCategories))
	copy(seed, DefaultCategories)
	if err := db.WithContext(ctx).Create(&seed).Error; err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	return len(seed), nil
}
