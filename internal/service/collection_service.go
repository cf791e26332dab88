package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

const maxCollectionNameLen = 100

// CollectionService manages a user's named poem collections.
type CollectionService struct {
	collectionRepo repository.CollectionRepository
}

// NewCollectionService creates a new collection service.
func NewCollectionService(collectionRepo repository.CollectionRepository) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo}
}

type CreateCollectionInput struct {
	OwnerID     uint
	Name        string
	Description string
	IsPublic    *bool
}

func (s *CollectionService) CreateCollection(ctx context.Context, in CreateCollectionInput) (*models.Collection, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Collection name is required")
	}
	if len(in.Name) > maxCollectionNameLen {
		return nil, models.NewValidationError("Collection name too long (max 100 characters)")
	}

	collection := &models.Collection{
		OwnerID:     in.OwnerID,
		Name:        in.Name,
		Description: in.Description,
		IsPublic:    true,
	}
	if in.IsPublic != nil {
		collection.IsPublic = *in.IsPublic
	}

	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *CollectionService) ListCollections(ctx context.Context, ownerID uint) ([]models.Collection, error) {
	return s.collectionRepo.ListByOwner(ctx, ownerID)
}

// ListCollectionPoems returns the poems of one of the caller's
// collections, in append order.
func (s *CollectionService) ListCollectionPoems(ctx context.Context, ownerID uint, name string) ([]*models.Poem, error) {
	collection, err := s.collectionRepo.GetByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, models.NewNotFoundError("Collection", name)
	}
	return s.collectionRepo.ListPoems(ctx, collection.ID, ownerID)
}
