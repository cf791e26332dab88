package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")

	users, err := s.userService.SearchUsers(c.Context(), query)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

// GetTrendingUsers handles GET /api/users/trending
func (s *Server) GetTrendingUsers(c *fiber.Ctx) error {
	users, err := s.userService.TrendingUsers(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := s.userService.GetProfile(c.Context(), username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserPoems handles GET /api/users/:username/poems
func (s *Server) GetUserPoems(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	poems, err := s.poemService.GetUserPoems(c.Context(), username, p.Limit, p.Offset, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if poems == nil {
		poems = []*models.Poem{}
	}
	return c.JSON(poems)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username"`
		Bio       string `json:"bio"`
		Avatar    string `json:"avatar"`
		Twitter   string `json:"twitter"`
		Instagram string `json:"instagram"`
		Website   string `json:"website"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    currentUserID(c),
		Username:  req.Username,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
		Twitter:   req.Twitter,
		Instagram: req.Instagram,
		Website:   req.Website,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.userService.ToggleFollow(c.Context(), currentUserID(c), followeeID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}
