// services/category_service.go - Category CRUD
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio/models"

	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryInput carries create and update fields. Nil or unset fields are left
// alone on update and defaulted on create.
type CategoryInput struct {
	Name        string                  `json:"name"`
	Description models.Optional[string] `json:"description"`
	Color       *string                 `json:"color"`
	Icon        *string                 `json:"icon"`
	SortOrder   *int                    `json:"sort_order"`
}

// CategoryDetail is a category with the achievements filed under it.
type CategoryDetail struct {
	Category     models.Category          `json:"category"`
	Achievements []models.AchievementView `json:"achievements"`
}

// List returns every category by sort order then name, with live achievement counts.
func (s *CategoryService) List(ctx context.Context) ([]models.CategoryWithCount, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var rows []struct {
		CategoryID uint
		Total      int64
	}
	err := s.db.WithContext(ctx).Model(&models.Achievement{}).
		Select("category_id, COUNT(*) AS total").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count achievements per category: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Total
	}

	out := make([]models.CategoryWithCount, len(categories))
	for i, c := range categories {
		out[i] = models.CategoryWithCount{Category: c, AchievementCount: counts[c.ID]}
	}
	return out, nil
}

// Get returns a category and its achievements, newest first.
func (s *CategoryService) Get(ctx context.Context, id uint) (*CategoryDetail, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	achievements, err := listAchievementViews(ctx, s.db, func(q *gorm.DB) *gorm.DB {
		return q.Where("achievements.category_id = ?", id)
	})
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: *category, Achievements: achievements}, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("Category name is required")
	}

	category := models.Category{
		Name:        name,
		Description: in.Description.Value,
		Color:       models.DefaultCategoryColor,
		Icon:        models.DefaultCategoryIcon,
	}
	if in.Color != nil && *in.Color != "" {
		category.Color = *in.Color
	}
	if in.Icon != nil && *in.Icon != "" {
		category.Icon = *in.Icon
	}
	if in.SortOrder != nil {
		category.SortOrder = *in.SortOrder
	}

	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// Update overwrites the provided fields of a category. Name is always required.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("Category name is required")
	}

	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if in.Description.Set {
		category.Description = in.Description.Value
	}
	if in.Color != nil && *in.Color != "" {
		category.Color = *in.Color
	}
	if in.Icon != nil && *in.Icon != "" {
		category.Icon = *in.Icon
	}
	if in.SortOrder != nil {
		category.SortOrder = *in.SortOrder
	}

	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes a category that no achievement references.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Achievement{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("count category achievements: %w", err)
	}
	if count > 0 {
		return conflictError("Cannot delete category with achievements")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// FindOrCreateByName returns the category called name, creating it with
// default display fields when missing.
func (s *CategoryService) FindOrCreateByName(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Category name is required")
	}

	var category models.Category
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find category: %w", err)
	}
	return s.Create(ctx, CategoryInput{Name: name})
}

func (s *CategoryService) find(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFoundError("Category not found")
	case err != nil:
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &category, nil
}
