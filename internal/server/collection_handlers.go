package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyCollections handles GET /api/collections
func (s *Server) GetMyCollections(c *fiber.Ctx) error {
	collections, err := s.collectionService.ListCollections(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if collections == nil {
		collections = []models.Collection{}
	}
	return c.JSON(collections)
}

// CreateCollection handles POST /api/collections
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    *bool  `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.CreateCollection(c.Context(), service.CreateCollectionInput{
		OwnerID:     currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetCollectionPoems handles GET /api/collections/:name/poems
func (s *Server) GetCollectionPoems(c *fiber.Ctx) error {
	name := c.Params("name")

	poems, err := s.collectionService.ListCollectionPoems(c.Context(), currentUserID(c), name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if poems == nil {
		poems = []*models.Poem{}
	}
	return c.JSON(poems)
}
