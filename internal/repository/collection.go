package repository

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository defines the interface for collection data operations.
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByOwnerAndName(ctx context.Context, ownerID uint, name string) (*models.Collection, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Collection, error)
	TogglePoem(ctx context.Context, collectionID, poemID uint) (bool, error)
	ListPoems(ctx context.Context, collectionID uint, currentUserID uint) ([]*models.Poem, error)
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) applyCollectionDetails(db *gorm.DB) *gorm.DB {
	return db.Select("collections.*, " +
		"(SELECT COUNT(*) FROM collection_poems WHERE collection_poems.collection_id = collections.id) as poem_count")
}

// Create rejects a name the owner already uses, compared case-insensitively.
func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("owner_id = ? AND LOWER(name) = ?", collection.OwnerID, strings.ToLower(collection.Name)).
		Count(&count).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	if count > 0 {
		return models.NewConflictError("Collection with this name already exists")
	}

	if err := r.db.WithContext(ctx).Create(collection).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) GetByOwnerAndName(ctx context.Context, ownerID uint, name string) (*models.Collection, error) {
	var collection models.Collection
	err := r.applyCollectionDetails(r.db.WithContext(ctx)).
		Where("owner_id = ? AND LOWER(name) = ?", ownerID, strings.ToLower(name)).
		First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &collection, nil
}

func (r *collectionRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.applyCollectionDetails(r.db.WithContext(ctx)).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&collections).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collections, nil
}

// TogglePoem flips the poem's membership atomically, same shape as the
// follow and resonance toggles. Returns whether the poem is saved after
// the call.
func (r *collectionRepository) TogglePoem(ctx context.Context, collectionID, poemID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("collection_id = ? AND poem_id = ?", collectionID, poemID).
		Delete(&models.CollectionPoem{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	insert := r.db.WithContext(ctx).Exec(
		`INSERT INTO collection_poems (collection_id, poem_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (collection_id, poem_id) DO NOTHING`,
		collectionID, poemID, nowUTC(),
	)
	if insert.Error != nil {
		return false, models.NewInternalError(insert.Error)
	}
	return true, nil
}

// ListPoems returns a collection's poems in append order.
func (r *collectionRepository) ListPoems(ctx context.Context, collectionID uint, currentUserID uint) ([]*models.Poem, error) {
	var memberships []models.CollectionPoem
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	poemIDs := make([]uint, len(memberships))
	for i, m := range memberships {
		poemIDs[i] = m.PoemID
	}

	poemRepo := &poemRepository{db: r.db}
	var poems []*models.Poem
	err = poemRepo.applyPoemDetails(r.db.WithContext(ctx), currentUserID).
		Where("poems.id IN ?", poemIDs).
		Find(&poems).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// Restore append order; the IN query returns arbitrary order.
	byID := make(map[uint]*models.Poem, len(poems))
	for _, p := range poems {
		byID[p.ID] = p
	}
	ordered := make([]*models.Poem, 0, len(poems))
	for _, id := range poemIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
