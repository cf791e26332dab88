package service

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

const (
	searchMinQueryLen  = 2
	searchResultLimit  = 10
	trendingUsersLimit = 5
	maxBioLen          = 300
)

// UserService covers the directory surface: search, trending, public
// profiles, profile updates and the follow toggle.
type UserService struct {
	userRepo   repository.UserRepository
	notifyRepo repository.NotificationRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, notifyRepo repository.NotificationRepository) *UserService {
	return &UserService{userRepo: userRepo, notifyRepo: notifyRepo}
}

type UpdateProfileInput struct {
	UserID    uint
	Username  string
	Bio       string
	Avatar    string
	Twitter   string
	Instagram string
	Website   string
}

// FollowResult is the response of a follow toggle.
type FollowResult struct {
	Following bool `json:"following"`
}

// SearchUsers matches case-insensitively against username or bio.
// Queries under two characters return an empty list, not an error.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	if len(query) < searchMinQueryLen {
		return []models.User{}, nil
	}
	return s.userRepo.Search(ctx, query, searchResultLimit)
}

// TrendingUsers ranks authors by poem count then follower count, cached
// briefly since the ranking is the same for every caller.
func (s *UserService) TrendingUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := cache.Aside(ctx, cache.TrendingUsersKey, &users, cache.TrendingTTL, func() error {
		var fetchErr error
		users, fetchErr = s.userRepo.Trending(ctx, trendingUsersLimit)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetProfile returns a user's public profile by username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// GetByID returns a user with computed counts, served through the cache.
// Writes that move the counts invalidate the entry at the repository.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		fetched, fetchErr := s.userRepo.GetByID(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		user = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial update with falsy-skip semantics; an
// empty field leaves the stored value unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError("Username already taken")
		}
		user.Username = in.Username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 300 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if in.Twitter != "" {
		user.Twitter = in.Twitter
	}
	if in.Instagram != "" {
		user.Instagram = in.Instagram
	}
	if in.Website != "" {
		user.Website = in.Website
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}

// ToggleFollow flips the follow edge; following yourself is rejected.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (*FollowResult, error) {
	if followerID == followeeID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	// Confirm the followee exists before touching the edge.
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return nil, err
	}

	following, err := s.userRepo.ToggleFollow(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}

	if following && s.notifyRepo != nil {
		_ = s.notifyRepo.Create(ctx, &models.Notification{
			UserID:  followeeID,
			ActorID: followerID,
			Kind:    models.NotificationFollow,
		})
	}

	return &FollowResult{Following: following}, nil
}
