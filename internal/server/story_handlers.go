package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetStories handles GET /api/stories
func (s *Server) GetStories(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	userID, _ := s.optionalUserID(c)

	stories, err := s.storyService.ListStories(c.Context(), p.Limit, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if stories == nil {
		stories = []*models.Story{}
	}
	return c.JSON(stories)
}

// GetStory handles GET /api/stories/:id
func (s *Server) GetStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	story, err := s.storyService.GetStory(c.Context(), storyID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(story)
}

// CreateStory handles POST /api/stories
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var req struct {
		Content    string   `json:"content"`
		ColorTheme string   `json:"color_theme"`
		Mentions   []string `json:"mentions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	story, err := s.storyService.CreateStory(c.Context(), service.CreateStoryInput{
		UserID:           currentUserID(c),
		Content:          req.Content,
		ColorTheme:       req.ColorTheme,
		MentionUsernames: req.Mentions,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// UpdateStory handles PATCH /api/stories/:id
func (s *Server) UpdateStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content    string `json:"content"`
		ColorTheme string `json:"color_theme"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	story, err := s.storyService.UpdateStory(c.Context(), service.UpdateStoryInput{
		CallerID:   currentUserID(c),
		StoryID:    storyID,
		Content:    req.Content,
		ColorTheme: req.ColorTheme,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(story)
}

// DeleteStory handles DELETE /api/stories/:id
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.storyService.DeleteStory(c.Context(), currentUserID(c), storyID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Story deleted"})
}

// ViewStory handles POST /api/stories/:id/view
func (s *Server) ViewStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	views, err := s.storyService.IncrementViews(c.Context(), storyID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"views": views})
}

// ToggleResonance handles POST /api/stories/:id/resonance
func (s *Server) ToggleResonance(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.storyService.ToggleResonance(c.Context(), currentUserID(c), storyID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}
