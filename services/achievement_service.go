// services/achievement_service.go - Achievement CRUD, filtering and images
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	MaxImageSize     = 5 << 20
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

const achievementViewColumns = `achievements.*,
	categories.name AS category_name,
	categories.color AS category_color,
	categories.icon AS category_icon,
	(SELECT COUNT(*) FROM milestones m WHERE m.achievement_id = achievements.id) AS milestone_count,
	(SELECT COUNT(*) FROM milestones m WHERE m.achievement_id = achievements.id AND m.completed_at IS NOT NULL) AS milestones_completed`

type AchievementService struct {
	db     *gorm.DB
	images ImageStore
	log    *slog.Logger
	now    func() time.Time
}

func NewAchievementService(db *gorm.DB, images ImageStore, log *slog.Logger) *AchievementService {
	if log == nil {
		log = slog.Default()
	}
	return &AchievementService{db: db, images: images, log: log, now: time.Now}
}

// AchievementFilter narrows List. Zero values mean "no filter".
type AchievementFilter struct {
	Status     string
	CategoryID *uint
	Difficulty string
	Search     string
	Limit      int
	Offset     int
}

// AchievementInput carries create and update fields. On update only the
// fields present in the request are written; an explicit null clears.
type AchievementInput struct {
	Title        string                  `json:"title"`
	Description  models.Optional[string] `json:"description"`
	CategoryID   models.Optional[uint]   `json:"category_id"`
	DateAchieved *string                 `json:"date_achieved"`
	Difficulty   models.Optional[string] `json:"difficulty"`
	Status       *string                 `json:"status"`
	Skills       models.Optional[string] `json:"skills"`
	ImageURL     models.Optional[string] `json:"image_url"`
	Notes        models.Optional[string] `json:"notes"`
}

type AchievementDetail struct {
	Achievement models.AchievementView `json:"achievement"`
	Milestones  []models.Milestone     `json:"milestones"`
}

// ImageUpload is an image file submitted for an achievement.
type ImageUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// ================== ACHIEVEMENTS ==================

// List returns achievements matching every set filter, newest first.
func (s *AchievementService) List(ctx context.Context, f AchievementFilter) ([]models.AchievementView, error) {
	if f.Status != "" && !models.Status(f.Status).Valid() {
		return nil, validationError("Invalid status %q", f.Status)
	}
	if f.Difficulty != "" && !models.Difficulty(f.Difficulty).Valid() {
		return nil, validationError("Invalid difficulty %q", f.Difficulty)
	}
	if f.Offset < 0 {
		return nil, validationError("Offset must not be negative")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	return listAchievementViews(ctx, s.db, func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			q = q.Where("achievements.status = ?", f.Status)
		}
		if f.CategoryID != nil {
			q = q.Where("achievements.category_id = ?", *f.CategoryID)
		}
		if f.Difficulty != "" {
			q = q.Where("achievements.difficulty = ?", f.Difficulty)
		}
		if term := strings.TrimSpace(f.Search); term != "" {
			pattern := likePattern(term)
			q = q.Where("(LOWER(achievements.title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(achievements.description, '')) LIKE ? ESCAPE '\\')",
				pattern, pattern)
		}
		return q.Limit(limit).Offset(f.Offset)
	})
}

// Get returns one achievement with its category display fields and milestones.
func (s *AchievementService) Get(ctx context.Context, id uint) (*AchievementDetail, error) {
	view, err := s.view(ctx, id)
	if err != nil {
		return nil, err
	}

	var milestones []models.Milestone
	err = s.db.WithContext(ctx).
		Where("achievement_id = ?", id).
		Order("sort_order ASC, id ASC").
		Find(&milestones).Error
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return &AchievementDetail{Achievement: *view, Milestones: milestones}, nil
}

func (s *AchievementService) Create(ctx context.Context, in AchievementInput) (*models.AchievementView, error) {
	a := models.Achievement{
		Status:       models.StatusCompleted,
		DateAchieved: s.now().Format(models.DateLayout),
	}
	if err := s.apply(ctx, &a, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create achievement: %w", err)
	}
	return s.view(ctx, a.ID)
}

// Update writes the provided fields and bumps updated_at. Title is always required.
func (s *AchievementService) Update(ctx context.Context, id uint, in AchievementInput) (*models.AchievementView, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationError("Title is required")
	}

	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, a, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, fmt.Errorf("update achievement: %w", err)
	}
	return s.view(ctx, id)
}

// Delete removes an achievement. Its milestones go with it through the
// foreign key; a stored image is removed best-effort.
func (s *AchievementService) Delete(ctx context.Context, id uint) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Achievement{}, id).Error; err != nil {
		return fmt.Errorf("delete achievement: %w", err)
	}
	s.dropImage(ctx, a.ImageURL)
	return nil
}

// ================== IMAGES ==================

// SetImage stores an uploaded image and points the achievement at it,
// replacing any previous one.
func (s *AchievementService) SetImage(ctx context.Context, id uint, up ImageUpload) (*models.AchievementView, error) {
	if s.images == nil {
		return nil, errors.New("image storage is not configured")
	}
	if up.Body == nil {
		return nil, validationError("Image file is required")
	}
	if up.Size > MaxImageSize {
		return nil, validationError("Image must be at most %d MB", MaxImageSize>>20)
	}

	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, validationError("Image file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, validationError("Image must be at most %d MB", MaxImageSize>>20)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, validationError("Unsupported image type %q", contentType)
	}

	key := fmt.Sprintf("achievements/%d/%s%s", id, uuid.NewString(), ext)
	url, err := s.images.Save(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	previous := a.ImageURL
	err = s.db.WithContext(ctx).Model(a).Updates(map[string]interface{}{
		"image_url":  url,
		"updated_at": s.now().UTC(),
	}).Error
	if err != nil {
		s.dropImage(ctx, &url)
		return nil, fmt.Errorf("save image url: %w", err)
	}
	s.dropImage(ctx, previous)

	s.log.Info("achievement image stored", slog.Uint64("achievement_id", uint64(id)), slog.String("key", key))
	return s.view(ctx, id)
}

// RemoveImage clears the achievement's image and deletes the stored file.
func (s *AchievementService) RemoveImage(ctx context.Context, id uint) (*models.AchievementView, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ImageURL == nil {
		return s.view(ctx, id)
	}

	previous := a.ImageURL
	err = s.db.WithContext(ctx).Model(a).Updates(map[string]interface{}{
		"image_url":  nil,
		"updated_at": s.now().UTC(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("clear image url: %w", err)
	}
	s.dropImage(ctx, previous)
	return s.view(ctx, id)
}

func (s *AchievementService) dropImage(ctx context.Context, url *string) {
	if s.images == nil || url == nil || *url == "" {
		return
	}
	if err := s.images.Delete(ctx, *url); err != nil {
		s.log.Warn("failed to delete achievement image", slog.String("url", *url), slog.Any("error", err))
	}
}

// ================== HELPERS ==================

// apply validates in and copies it onto a. Create passes a fresh record, so
// every field set in the request lands; update leaves absent fields untouched.
func (s *AchievementService) apply(ctx context.Context, a *models.Achievement, in AchievementInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return validationError("Title is required")
	}
	a.Title = title

	if in.Status != nil {
		if !models.Status(*in.Status).Valid() {
			return validationError("Invalid status %q", *in.Status)
		}
		a.Status = models.Status(*in.Status)
	}

	if in.Difficulty.Set {
		if in.Difficulty.Value != nil && *in.Difficulty.Value != "" {
			if !models.Difficulty(*in.Difficulty.Value).Valid() {
				return validationError("Invalid difficulty %q", *in.Difficulty.Value)
			}
			d := *in.Difficulty.Value
			a.Difficulty = &d
		} else {
			a.Difficulty = nil
		}
	}

	if in.DateAchieved != nil && strings.TrimSpace(*in.DateAchieved) != "" {
		date, err := normalizeDate(*in.DateAchieved)
		if err != nil {
			return err
		}
		a.DateAchieved = date
	}

	if in.CategoryID.Set {
		if in.CategoryID.Value == nil {
			a.CategoryID = nil
		} else {
			id := *in.CategoryID.Value
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("check category: %w", err)
			}
			if count == 0 {
				return validationError("Category %d does not exist", id)
			}
			a.CategoryID = &id
		}
	}

	if in.Description.Set {
		a.Description = in.Description.Value
	}
	if in.Skills.Set {
		a.Skills = in.Skills.Value
	}
	if in.ImageURL.Set {
		a.ImageURL = in.ImageURL.Value
	}
	if in.Notes.Set {
		a.Notes = in.Notes.Value
	}
	return nil
}

func (s *AchievementService) find(ctx context.Context, id uint) (*models.Achievement, error) {
	var a models.Achievement
	err := s.db.WithContext(ctx).First(&a, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFoundError("Achievement not found")
	case err != nil:
		return nil, fmt.Errorf("load achievement: %w", err)
	}
	return &a, nil
}

func (s *AchievementService) view(ctx context.Context, id uint) (*models.AchievementView, error) {
	views, err := listAchievementViews(ctx, s.db, func(q *gorm.DB) *gorm.DB {
		return q.Where("achievements.id = ?", id).Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, notFoundError("Achievement not found")
	}
	return &views[0], nil
}

// listAchievementViews runs the joined achievement read with scope applied and
// fills in progress.
func listAchievementViews(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]models.AchievementView, error) {
	q := db.WithContext(ctx).
		Table("achievements").
		Select(achievementViewColumns).
		Joins("LEFT JOIN categories ON categories.id = achievements.category_id").
		Order("achievements.date_achieved DESC, achievements.created_at DESC, achievements.id DESC")
	if scope != nil {
		q = scope(q)
	}

	views := []models.AchievementView{}
	if err := q.Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	for i := range views {
		views[i].Progress = models.Progress(views[i].MilestonesCompleted, views[i].MilestoneCount)
	}
	return views, nil
}

func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	return "%" + escaped + "%"
}

// normalizeDate accepts a calendar date or an RFC 3339 timestamp and returns
// the calendar date.
func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(models.DateLayout, raw); err == nil {
		return t.Format(models.DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(models.DateLayout), nil
	}
	return "", validationError("Invalid date %q, expected YYYY-MM-DD", raw)
}
