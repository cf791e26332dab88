package repository

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations.
// All read paths filter on expires_at so expired-but-not-yet-reaped rows
// never leak out; DeleteExpired is called by the background reaper.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Story, error)
	List(ctx context.Context, limit int, currentUserID uint) ([]*models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) (int, error)
	ToggleResonance(ctx context.Context, userID, storyID uint) (bool, error)
	ResonanceCount(ctx context.Context, storyID uint) (int, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

// applyStoryDetails adds subqueries for resonance count and the caller's
// resonance flag.
func (r *storyRepository) applyStoryDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "stories.*, " +
		"(SELECT COUNT(*) FROM resonances WHERE resonances.story_id = stories.id) as resonance_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM resonances WHERE resonances.story_id = stories.id AND resonances.user_id = ?) as resonating", currentUserID)
	}

	return db.Select(selectQuery + ", false as resonating")
}

func (r *storyRepository) notExpired(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", nowUTC())
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStoriesList(ctx)
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Story, error) {
	var story models.Story
	err := r.notExpired(r.applyStoryDetails(r.db.WithContext(ctx), currentUserID)).
		Preload("Mentions").
		First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Story", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &story, nil
}

func (r *storyRepository) List(ctx context.Context, limit int, currentUserID uint) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.notExpired(r.applyStoryDetails(r.db.WithContext(ctx), currentUserID)).
		Preload("Mentions").
		Order("created_at DESC").
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Save(story).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStoriesList(ctx)
	return nil
}

func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Story{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStoriesList(ctx)
	return nil
}

// IncrementViews bumps the view counter atomically and returns the new
// value. Expired stories are not counted.
func (r *storyRepository) IncrementViews(ctx context.Context, id uint) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("id = ? AND expires_at > ?", id, nowUTC()).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Story", id)
	}

	var story models.Story
	if err := r.db.WithContext(ctx).Select("views").First(&story, id).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return story.Views, nil
}

// ToggleResonance flips the caller's resonance atomically: the delete's
// row count decides the direction and the insert ignores a concurrent
// duplicate. Returns whether the caller is resonating after the call.
func (r *storyRepository) ToggleResonance(ctx context.Context, userID, storyID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&models.Resonance{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	insert := r.db.WithContext(ctx).Exec(
		`INSERT INTO resonances (user_id, story_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, story_id) DO NOTHING`,
		userID, storyID, nowUTC(),
	)
	if insert.Error != nil {
		return false, models.NewInternalError(insert.Error)
	}
	return true, nil
}

func (r *storyRepository) ResonanceCount(ctx context.Context, storyID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Resonance{}).
		Where("story_id = ?", storyID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return int(count), nil
}

// DeleteExpired hard-deletes stories past their deadline along with their
// resonance rows. Returns the number of stories removed.
func (r *storyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := nowUTC()

	if err := r.db.WithContext(ctx).
		Where("story_id IN (SELECT id FROM stories WHERE expires_at <= ?)", now).
		Delete(&models.Resonance{}).Error; err != nil {
		return 0, models.NewInternalError(err)
	}

	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Story{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
