// models/category.go
package models

import "time"

const (
	DefaultCategoryColor = "#6366f1"
	DefaultCategoryIcon  = "folder"
)

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description *string   `json:"description" gorm:"type:text"`
	Color       string    `json:"color" gorm:"not null;size:20"`
	Icon        string    `json:"icon" gorm:"size:50"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryWithCount is a category annotated with its live achievement count.
type CategoryWithCount struct {
	Category
	AchievementCount int64 `json:"achievement_count"`
}
