// models/achievement.go
package models

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// DateLayout is the storage and wire format of Achievement.DateAchieved.
const DateLayout = "2006-01-02"

type Achievement struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null;size:255"`
	Description  *string   `json:"description" gorm:"type:text"`
	CategoryID   *uint     `json:"category_id" gorm:"index"`
	DateAchieved string    `json:"date_achieved" gorm:"size:10;index"`
	Difficulty   *string   `json:"difficulty" gorm:"size:20"`
	Status       Status    `json:"status" gorm:"not null;size:20"`
	Skills       *string   `json:"skills" gorm:"type:text"`
	ImageURL     *string   `json:"image_url" gorm:"column:image_url;type:text"`
	Notes        *string   `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// AchievementView is an achievement joined with its category display fields
// and milestone counters, as returned by list and detail reads.
type AchievementView struct {
	Achievement
	CategoryName        *string `json:"category_name"`
	CategoryColor       *string `json:"category_color"`
	CategoryIcon        *string `json:"category_icon"`
	MilestoneCount      int64   `json:"milestone_count"`
	MilestonesCompleted int64   `json:"milestones_completed"`
	Progress            int     `json:"progress" gorm:"-"`
}

// Progress is the floored percentage of completed milestones; zero when there
// are no milestones.
func Progress(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(completed * 100 / total)
}

type Milestone struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	AchievementID uint       `json:"achievement_id" gorm:"not null;index"`
	Title         string     `json:"title" gorm:"not null;size:255"`
	Description   *string    `json:"description" gorm:"type:text"`
	CompletedAt   *time.Time `json:"completed_at"`
	SortOrder     int        `json:"sort_order"`
}

func (Milestone) TableName() string {
	return "milestones"
}

func (m Milestone) Completed() bool {
	return m.CompletedAt != nil
}
