// services/stats_service.go - Dashboard aggregates
package services

import (
	"context"
	"fmt"

	"portfolio/models"

	"gorm.io/gorm"
)

const (
	recentLimit       = 5
	uncategorizedName = "Uncategorized"
	unsetDifficulty   = "unset"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type CategoryCount struct {
	CategoryID *uint  `json:"category_id"`
	Name       string `json:"name"`
	Count      int64  `json:"count"`
}

type MilestoneTotals struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
}

type Stats struct {
	TotalAchievements int64                    `json:"total_achievements"`
	ByStatus          map[string]int64         `json:"by_status"`
	ByDifficulty      map[string]int64         `json:"by_difficulty"`
	ByCategory        []CategoryCount          `json:"by_category"`
	Milestones        MilestoneTotals          `json:"milestones"`
	Recent            []models.AchievementView `json:"recent"`
}

// Summary computes the portfolio dashboard numbers.
func (s *StatsService) Summary(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	stats := &Stats{
		ByStatus: map[string]int64{
			string(models.StatusPending):    0,
			string(models.StatusInProgress): 0,
			string(models.StatusCompleted):  0,
		},
		ByDifficulty: map[string]int64{
			string(models.DifficultyEasy):   0,
			string(models.DifficultyMedium): 0,
			string(models.DifficultyHard):   0,
			string(models.DifficultyExpert): 0,
			unsetDifficulty:                 0,
		},
		ByCategory: []CategoryCount{},
	}

	var byStatus []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&models.Achievement{}).Select("status, COUNT(*) AS total").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	for _, r := range byStatus {
		stats.ByStatus[r.Status] = r.Total
		stats.TotalAchievements += r.Total
	}

	var byDifficulty []struct {
		Difficulty *string
		Total      int64
	}
	if err := db.Model(&models.Achievement{}).Select("difficulty, COUNT(*) AS total").Group("difficulty").Scan(&byDifficulty).Error; err != nil {
		return nil, fmt.Errorf("count by difficulty: %w", err)
	}
	for _, r := range byDifficulty {
		key := unsetDifficulty
		if r.Difficulty != nil {
			key = *r.Difficulty
		}
		stats.ByDifficulty[key] += r.Total
	}

	var byCategory []struct {
		CategoryID *uint
		Name       *string
		Total      int64
	}
	err := db.Table("achievements").
		Select("achievements.category_id AS category_id, categories.name AS name, COUNT(*) AS total").
		Joins("LEFT JOIN categories ON categories.id = achievements.category_id").
		Group("achievements.category_id, categories.name").
		Order("total DESC, name ASC").
		Scan(&byCategory).Error
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	for _, r := range byCategory {
		name := uncategorizedName
		if r.Name != nil {
			name = *r.Name
		}
		stats.ByCategory = append(stats.ByCategory, CategoryCount{CategoryID: r.CategoryID, Name: name, Count: r.Total})
	}

	err = db.Model(&models.Milestone{}).
		Select("COUNT(*) AS total, COUNT(completed_at) AS completed").
		Scan(&stats.Milestones).Error
	if err != nil {
		return nil, fmt.Errorf("count milestones: %w", err)
	}

	stats.Recent, err = listAchievementViews(ctx, s.db, func(q *gorm.DB) *gorm.DB {
		return q.Limit(recentLimit)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
