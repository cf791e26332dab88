// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// PoemRepository defines the interface for poem data operations
type PoemRepository interface {
	Create(ctx context.Context, poem *models.Poem) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Poem, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Poem, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Poem, error)
	Feed(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) ([]*models.Poem, error)
	Update(ctx context.Context, poem *models.Poem) error
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, poemID uint, username string) (bool, error)
	Unlike(ctx context.Context, userID, poemID uint) error
	LikedPoemIDs(ctx context.Context, userID uint, poemIDs []uint) ([]uint, error)
	CreateAnnotation(ctx context.Context, annotation *models.Annotation) error
	GetAnnotation(ctx context.Context, poemID, annotationID uint) (*models.Annotation, error)
	ListAnnotations(ctx context.Context, poemID uint) ([]models.Annotation, error)
	DeleteAnnotation(ctx context.Context, poemID, annotationID uint) error
}

// poemRepository implements PoemRepository
type poemRepository struct {
	db *gorm.DB
}

// NewPoemRepository creates a new poem repository
func NewPoemRepository(db *gorm.DB) PoemRepository {
	return &poemRepository{db: db}
}

// applyPoemDetails adds subqueries to fetch counts and liked status in a single query.
func (r *poemRepository) applyPoemDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "poems.*, " +
		"(SELECT COUNT(*) FROM annotations WHERE annotations.poem_id = poems.id) as annotation_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.poem_id = poems.id) as like_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.poem_id = poems.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *poemRepository) Create(ctx context.Context, poem *models.Poem) error {
	if err := r.db.WithContext(ctx).Create(poem).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoemsList(ctx)
	// The author's poem count changed.
	cache.InvalidateUser(ctx, poem.AuthorID)
	return nil
}

func (r *poemRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Poem, error) {
	var poem models.Poem
	err := r.applyPoemDetails(r.db.WithContext(ctx), currentUserID).
		Preload("CoAuthors").
		Preload("Annotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("annotations.id ASC")
		}).
		First(&poem, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Poem", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &poem, nil
}

func (r *poemRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	var poems []*models.Poem
	err := r.applyPoemDetails(r.db.WithContext(ctx), currentUserID).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&poems).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return poems, nil
}

func (r *poemRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	var poems []*models.Poem
	err := r.applyPoemDetails(r.db.WithContext(ctx), currentUserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&poems).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return poems, nil
}

func (r *poemRepository) Feed(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var poems []*models.Poem
	err := r.applyPoemDetails(r.db.WithContext(ctx), currentUserID).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&poems).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return poems, nil
}

func (r *poemRepository) Update(ctx context.Context, poem *models.Poem) error {
	if err := r.db.WithContext(ctx).Save(poem).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, poem.ID)
	return nil
}

func (r *poemRepository) Delete(ctx context.Context, id uint) error {
	var authorID uint
	r.db.WithContext(ctx).
		Model(&models.Poem{}).
		Where("id = ?", id).
		Pluck("author_id", &authorID)

	if err := r.db.WithContext(ctx).Delete(&models.Poem{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, id)
	if authorID != 0 {
		cache.InvalidateUser(ctx, authorID)
	}
	return nil
}

// Like inserts the like row conditionally so two concurrent likers cannot
// both succeed. Returns false when the row already existed.
func (r *poemRepository) Like(ctx context.Context, userID, poemID uint, username string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, poem_id, username, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, poem_id) DO NOTHING`,
		userID, poemID, username, nowUTC(),
	)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePoem(ctx, poemID)
	}
	return result.RowsAffected > 0, nil
}

// Unlike removes the like if present; removing an absent like is a no-op.
func (r *poemRepository) Unlike(ctx context.Context, userID, poemID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND poem_id = ?", userID, poemID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, poemID)
	return nil
}

func (r *poemRepository) LikedPoemIDs(ctx context.Context, userID uint, poemIDs []uint) ([]uint, error) {
	if len(poemIDs) == 0 {
		return nil, nil
	}
	var likedIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND poem_id IN ?", userID, poemIDs).
		Pluck("poem_id", &likedIDs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likedIDs, nil
}

func (r *poemRepository) CreateAnnotation(ctx context.Context, annotation *models.Annotation) error {
	if err := r.db.WithContext(ctx).Create(annotation).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, annotation.PoemID)
	return nil
}

func (r *poemRepository) GetAnnotation(ctx context.Context, poemID, annotationID uint) (*models.Annotation, error) {
	var annotation models.Annotation
	err := r.db.WithContext(ctx).
		Where("poem_id = ?", poemID).
		First(&annotation, annotationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Annotation", annotationID)
		}
		return nil, models.NewInternalError(err)
	}
	return &annotation, nil
}

func (r *poemRepository) ListAnnotations(ctx context.Context, poemID uint) ([]models.Annotation, error) {
	var annotations []models.Annotation
	err := r.db.WithContext(ctx).
		Where("poem_id = ?", poemID).
		Order("id ASC").
		Find(&annotations).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return annotations, nil
}

func (r *poemRepository) DeleteAnnotation(ctx context.Context, poemID, annotationID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Annotation{}, annotationID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, poemID)
	return nil
}
