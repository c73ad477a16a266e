// services/import_service.go - JSON bundle import and export
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio/models"

	"gorm.io/gorm"
)

const BundleVersion = 1

// Bundle is the portable form of a whole portfolio.
type Bundle struct {
	Version      int                 `json:"version"`
	ExportedAt   time.Time           `json:"exported_at"`
	Categories   []BundleCategory    `json:"categories"`
	Achievements []BundleAchievement `json:"achievements"`
}

type BundleCategory struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	SortOrder   int     `json:"sort_order"`
}

type BundleAchievement struct {
	Title        string            `json:"title"`
	Description  *string           `json:"description,omitempty"`
	Category     string            `json:"category,omitempty"`
	DateAchieved string            `json:"date_achieved,omitempty"`
	Difficulty   *string           `json:"difficulty,omitempty"`
	Status       string            `json:"status,omitempty"`
	Skills       *string           `json:"skills,omitempty"`
	ImageURL     *string           `json:"image_url,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
	Milestones   []BundleMilestone `json:"milestones,omitempty"`
}

type BundleMilestone struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	SortOrder   int        `json:"sort_order"`
}

type ImportResult struct {
	Categories   int `json:"categories"`
	Achievements int `json:"achievements"`
	Milestones   int `json:"milestones"`
}

type ImportService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewImportService(db *gorm.DB, log *slog.Logger) *ImportService {
	if log == nil {
		log = slog.Default()
	}
	return &ImportService{db: db, log: log}
}

// Import loads a bundle in one transaction. Categories are matched by name and
// only created when missing; achievements and milestones are always added.
func (s *ImportService) Import(ctx context.Context, b Bundle) (*ImportResult, error) {
	if b.Version != 0 && b.Version != BundleVersion {
		return nil, validationError("Unsupported bundle version %d", b.Version)
	}

	result := &ImportResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := NewCategoryService(tx)
		achievements := NewAchievementService(tx, nil, s.log)
		byName := map[string]uint{}

		for i, bc := range b.Categories {
			id, created, err := importCategory(ctx, tx, categories, bc)
			if err != nil {
				return fmt.Errorf("category %d (%q): %w", i, bc.Name, err)
			}
			byName[strings.ToLower(strings.TrimSpace(bc.Name))] = id
			if created {
				result.Categories++
			}
		}

		for i, ba := range b.Achievements {
			in := AchievementInput{
				Title:       ba.Title,
				Description: optionalOf(ba.Description),
				Difficulty:  optionalOf(ba.Difficulty),
				Skills:      optionalOf(ba.Skills),
				ImageURL:    optionalOf(ba.ImageURL),
				Notes:       optionalOf(ba.Notes),
			}
			if ba.DateAchieved != "" {
				in.DateAchieved = &ba.DateAchieved
			}
			if ba.Status != "" {
				in.Status = &ba.Status
			}
			if name := strings.TrimSpace(ba.Category); name != "" {
				key := strings.ToLower(name)
				id, ok := byName[key]
				if !ok {
					c, err := categories.FindOrCreateByName(ctx, name)
					if err != nil {
						return fmt.Errorf("achievement %d (%q): %w", i, ba.Title, err)
					}
					id = c.ID
					byName[key] = id
				}
				in.CategoryID = models.Some(id)
			}

			created, err := achievements.Create(ctx, in)
			if err != nil {
				return fmt.Errorf("achievement %d (%q): %w", i, ba.Title, err)
			}
			result.Achievements++

			for j, bm := range ba.Milestones {
				title, order := bm.Title, bm.SortOrder
				mi := MilestoneInput{
					Title:       &title,
					Description: optionalOf(bm.Description),
					CompletedAt: optionalOf(bm.CompletedAt),
					SortOrder:   &order,
				}
				if _, err := achievements.AddMilestone(ctx, created.ID, mi); err != nil {
					return fmt.Errorf("achievement %d milestone %d: %w", i, j, err)
				}
				result.Milestones++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bundle imported",
		slog.Int("categories", result.Categories),
		slog.Int("achievements", result.Achievements),
		slog.Int("milestones", result.Milestones))
	return result, nil
}

// Export returns every category, achievement and milestone as a bundle.
func (s *ImportService) Export(ctx context.Context) (*Bundle, error) {
	db := s.db.WithContext(ctx)
	b := &Bundle{
		Version:      BundleVersion,
		ExportedAt:   time.Now().UTC(),
		Categories:   []BundleCategory{},
		Achievements: []BundleAchievement{},
	}

	var categories []models.Category
	if err := db.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
		b.Categories = append(b.Categories, BundleCategory{
			Name:        c.Name,
			Description: c.Description,
			Color:       c.Color,
			Icon:        c.Icon,
			SortOrder:   c.SortOrder,
		})
	}

	var milestones []models.Milestone
	if err := db.Order("achievement_id ASC, sort_order ASC, id ASC").Find(&milestones).Error; err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	byAchievement := map[uint][]BundleMilestone{}
	for _, m := range milestones {
		byAchievement[m.AchievementID] = append(byAchievement[m.AchievementID], BundleMilestone{
			Title:       m.Title,
			Description: m.Description,
			CompletedAt: m.CompletedAt,
			SortOrder:   m.SortOrder,
		})
	}

	var achievements []models.Achievement
	if err := db.Order("date_achieved ASC, id ASC").Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	for _, a := range achievements {
		ba := BundleAchievement{
			Title:        a.Title,
			Description:  a.Description,
			DateAchieved: a.DateAchieved,
			Difficulty:   a.Difficulty,
			Status:       string(a.Status),
			Skills:       a.Skills,
			ImageURL:     a.ImageURL,
			Notes:        a.Notes,
			Milestones:   byAchievement[a.ID],
		}
		if a.CategoryID != nil {
			ba.Category = names[*a.CategoryID]
		}
		b.Achievements = append(b.Achievements, ba)
	}
	return b, nil
}

func importCategory(ctx context.Context, tx *gorm.DB, categories *CategoryService, bc BundleCategory) (uint, bool, error) {
	name := strings.TrimSpace(bc.Name)
	var existing models.Category
	err := tx.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	switch {
	case err == nil:
		return existing.ID, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, false, fmt.Errorf("find category: %w", err)
	}

	order := bc.SortOrder
	in := CategoryInput{
		Name:        name,
		Description: optionalOf(bc.Description),
		SortOrder:   &order,
	}
	if bc.Color != "" {
		in.Color = &bc.Color
	}
	if bc.Icon != "" {
		in.Icon = &bc.Icon
	}
	c, err := categories.Create(ctx, in)
	if err != nil {
		return 0, false, err
	}
	return c.ID, true, nil
}

// optionalOf treats nil as an absent key.
func optionalOf[T any](v *T) models.Optional[T] {
	if v == nil {
		return models.Optional[T]{}
	}
	return models.Some(*v)
}
