// services/milestones.go - Milestones nested under an achievement
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio/models"

	"gorm.io/gorm"
)

// MilestoneInput carries create and update fields. CompletedAt distinguishes an
// absent key (unchanged) from an explicit null (reopen).
type MilestoneInput struct {
	Title       *string                    `json:"title"`
	Description models.Optional[string]    `json:"description"`
	CompletedAt models.Optional[time.Time] `json:"completed_at"`
	SortOrder   *int                       `json:"sort_order"`
}

// AddMilestone appends a milestone to an achievement. Without an explicit
// sort_order it goes after the existing ones.
func (s *AchievementService) AddMilestone(ctx context.Context, achievementID uint, in MilestoneInput) (*models.Milestone, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, validationError("Milestone title is required")
	}
	if _, err := s.find(ctx, achievementID); err != nil {
		return nil, err
	}

	m := models.Milestone{
		AchievementID: achievementID,
		Title:         strings.TrimSpace(*in.Title),
		Description:   in.Description.Value,
	}
	if in.CompletedAt.Value != nil {
		t := in.CompletedAt.Value.UTC()
		m.CompletedAt = &t
	}

	if in.SortOrder != nil {
		m.SortOrder = *in.SortOrder
	} else {
		var next int
		err := s.db.WithContext(ctx).Model(&models.Milestone{}).
			Select("COALESCE(MAX(sort_order), -1) + 1").
			Where("achievement_id = ?", achievementID).
			Scan(&next).Error
		if err != nil {
			return nil, fmt.Errorf("next milestone position: %w", err)
		}
		m.SortOrder = next
	}

	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return &m, nil
}

// UpdateMilestone changes the provided fields of a milestone that belongs to
// achievementID.
func (s *AchievementService) UpdateMilestone(ctx context.Context, achievementID, milestoneID uint, in MilestoneInput) (*models.Milestone, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, validationError("Milestone title is required")
	}

	m, err := s.findMilestone(ctx, achievementID, milestoneID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description.Set {
		m.Description = in.Description.Value
	}
	if in.CompletedAt.Set {
		if in.CompletedAt.Value == nil {
			m.CompletedAt = nil
		} else {
			t := in.CompletedAt.Value.UTC()
			m.CompletedAt = &t
		}
	}
	if in.SortOrder != nil {
		m.SortOrder = *in.SortOrder
	}

	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, fmt.Errorf("update milestone: %w", err)
	}
	return m, nil
}

// ToggleMilestone marks an open milestone completed now, or reopens a completed one.
func (s *AchievementService) ToggleMilestone(ctx context.Context, achievementID, milestoneID uint) (*models.Milestone, error) {
	m, err := s.findMilestone(ctx, achievementID, milestoneID)
	if err != nil {
		return nil, err
	}

	if m.Completed() {
		m.CompletedAt = nil
	} else {
		now := s.now().UTC()
		m.CompletedAt = &now
	}

	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, fmt.Errorf("toggle milestone: %w", err)
	}
	return m, nil
}

func (s *AchievementService) DeleteMilestone(ctx context.Context, achievementID, milestoneID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND achievement_id = ?", milestoneID, achievementID).
		Delete(&models.Milestone{})
	if res.Error != nil {
		return fmt.Errorf("delete milestone: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("Milestone not found")
	}
	return nil
}

// findMilestone looks a milestone up by id within its parent achievement only.
func (s *AchievementService) findMilestone(ctx context.Context, achievementID, milestoneID uint) (*models.Milestone, error) {
	var m models.Milestone
	err := s.db.WithContext(ctx).
		Where("id = ? AND achievement_id = ?", milestoneID, achievementID).
		First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFoundError("Milestone not found")
	case err != nil:
		return nil, fmt.Errorf("load milestone: %w", err)
	}
	return &m, nil
}
