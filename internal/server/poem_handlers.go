package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPoems handles GET /api/poems
func (s *Server) GetPoems(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	poems, err := s.poemService.ListPoems(c.Context(), p.Limit, p.Offset, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if poems == nil {
		poems = []*models.Poem{}
	}
	return c.JSON(poems)
}

// GetPoem handles GET /api/poems/:id
func (s *Server) GetPoem(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	poem, err := s.poemService.GetPoem(c.Context(), poemID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(poem)
}

// GetFeed handles GET /api/poems/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	userID := currentUserID(c)

	poems, err := s.poemService.Feed(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if poems == nil {
		poems = []*models.Poem{}
	}
	return c.JSON(poems)
}

// CreatePoem handles POST /api/poems
func (s *Server) CreatePoem(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Theme       string `json:"theme"`
		Mood        string `json:"mood"`
		Source      string `json:"source"`
		CoAuthorIDs []uint `json:"co_author_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poem, err := s.poemService.CreatePoem(c.Context(), service.CreatePoemInput{
		AuthorID:    currentUserID(c),
		Title:       req.Title,
		Content:     req.Content,
		Theme:       req.Theme,
		Mood:        req.Mood,
		Source:      req.Source,
		CoAuthorIDs: req.CoAuthorIDs,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(poem)
}

// UpdatePoem handles PUT /api/poems/:id
func (s *Server) UpdatePoem(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Theme   string `json:"theme"`
		Mood    string `json:"mood"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poem, err := s.poemService.UpdatePoem(c.Context(), service.UpdatePoemInput{
		CallerID: currentUserID(c),
		PoemID:   poemID,
		Title:    req.Title,
		Content:  req.Content,
		Theme:    req.Theme,
		Mood:     req.Mood,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(poem)
}

// DeletePoem handles DELETE /api/poems/:id
func (s *Server) DeletePoem(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.poemService.DeletePoem(c.Context(), currentUserID(c), poemID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Poem deleted"})
}

// LikePoem handles POST /api/poems/:id/like
func (s *Server) LikePoem(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	poem, err := s.poemService.LikePoem(c.Context(), currentUserID(c), poemID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(poem)
}

// UnlikePoem handles POST /api/poems/:id/unlike
func (s *Server) UnlikePoem(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	poem, err := s.poemService.UnlikePoem(c.Context(), currentUserID(c), poemID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(poem)
}

// GetAnnotations handles GET /api/poems/:id/annotations
func (s *Server) GetAnnotations(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	annotations, err := s.poemService.ListAnnotations(c.Context(), poemID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if annotations == nil {
		annotations = []models.Annotation{}
	}
	return c.JSON(annotations)
}

// CreateAnnotation handles POST /api/poems/:id/annotations
func (s *Server) CreateAnnotation(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		LineIndex *int   `json:"line_index"`
		Content   string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.LineIndex == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Line index is required"))
	}

	annotation, err := s.poemService.Annotate(c.Context(), service.AnnotateInput{
		CallerID:  currentUserID(c),
		PoemID:    poemID,
		LineIndex: *req.LineIndex,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(annotation)
}

// DeleteAnnotation handles DELETE /api/poems/:id/annotations/:annotationId
func (s *Server) DeleteAnnotation(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	annotationID, err := s.parseID(c, "annotationId")
	if err != nil {
		return nil
	}

	if err := s.poemService.DeleteAnnotation(c.Context(), currentUserID(c), poemID, annotationID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Annotation deleted"})
}

// SavePoemToCollection handles POST /api/poems/:id/save
func (s *Server) SavePoemToCollection(c *fiber.Ctx) error {
	poemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Collection string `json:"collection"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	saved, err := s.poemService.SaveToCollection(c.Context(), currentUserID(c), poemID, req.Collection)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"saved": saved})
}
