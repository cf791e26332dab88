package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
)

// StoryService manages the ephemeral story lifecycle: creation with a
// 24-hour deadline, windowed edits, public view counting and the
// resonance toggle.
type StoryService struct {
	storyRepo  repository.StoryRepository
	userRepo   repository.UserRepository
	notifyRepo repository.NotificationRepository
	now        func() time.Time
}

// NewStoryService creates a new story service.
func NewStoryService(
	storyRepo repository.StoryRepository,
	userRepo repository.UserRepository,
	notifyRepo repository.NotificationRepository,
) *StoryService {
	return &StoryService{
		storyRepo:  storyRepo,
		userRepo:   userRepo,
		notifyRepo: notifyRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type CreateStoryInput struct {
	UserID           uint
	Content          string
	ColorTheme       string
	MentionUsernames []string
}

type UpdateStoryInput struct {
	CallerID   uint
	StoryID    uint
	Content    string
	ColorTheme string
}

// ResonanceResult is the response of a resonance toggle.
type ResonanceResult struct {
	ResonanceCount int  `json:"resonance_count"`
	Resonating     bool `json:"resonating"`
}

func (s *StoryService) CreateStory(ctx context.Context, in CreateStoryInput) (*models.Story, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(in.Content) > models.MaxStoryContentLen {
		return nil, models.NewValidationError("Content too long (max 200 characters)")
	}
	colorTheme := in.ColorTheme
	if colorTheme == "" {
		colorTheme = "blue"
	}
	if !models.ValidStoryColorTheme(colorTheme) {
		return nil, models.NewValidationError("Invalid color theme")
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	story := &models.Story{
		UserID:     in.UserID,
		Username:   author.Username,
		Content:    in.Content,
		ColorTheme: colorTheme,
		CreatedAt:  now,
		ExpiresAt:  now.Add(models.StoryTTL),
	}

	for _, username := range in.MentionUsernames {
		mentioned, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if mentioned == nil {
			return nil, models.NewValidationError("Mentioned user not found: " + username)
		}
		story.Mentions = append(story.Mentions, *mentioned)
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	for _, mentioned := range story.Mentions {
		s.notifyMention(ctx, mentioned.ID, in.UserID, story.ID)
	}

	return s.storyRepo.GetByID(ctx, story.ID, in.UserID)
}

// defaultStoriesLimit matches the handler's default page size; only that
// page is cached since it is what anonymous readers request.
const defaultStoriesLimit = 50

func (s *StoryService) ListStories(ctx context.Context, limit int, currentUserID uint) ([]*models.Story, error) {
	if currentUserID == 0 && limit == defaultStoriesLimit {
		var stories []*models.Story
		err := cache.Aside(ctx, cache.StoriesListKey, &stories, cache.ListTTL, func() error {
			var fetchErr error
			stories, fetchErr = s.storyRepo.List(ctx, limit, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return stories, nil
	}
	return s.storyRepo.List(ctx, limit, currentUserID)
}

func (s *StoryService) GetStory(ctx context.Context, id uint, currentUserID uint) (*models.Story, error) {
	return s.storyRepo.GetByID(ctx, id, currentUserID)
}

// UpdateStory applies a partial update inside the edit window, with the
// same falsy-skip semantics as poems.
func (s *StoryService) UpdateStory(ctx context.Context, in UpdateStoryInput) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, in.StoryID, in.CallerID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanMutate(story.UserID, in.CallerID, story.CreatedAt, policy.EditWindow, s.now()); err != nil {
		switch {
		case errors.Is(err, policy.ErrNotOwner):
			return nil, models.NewForbiddenError("You can only edit your own stories")
		case errors.Is(err, policy.ErrWindowExpired):
			return nil, models.NewWindowExpiredError("Edit window has expired")
		}
		return nil, err
	}

	if in.Content != "" {
		if utf8.RuneCountInString(in.Content) > models.MaxStoryContentLen {
			return nil, models.NewValidationError("Content too long (max 200 characters)")
		}
		story.Content = in.Content
	}
	if in.ColorTheme != "" {
		if !models.ValidStoryColorTheme(in.ColorTheme) {
			return nil, models.NewValidationError("Invalid color theme")
		}
		story.ColorTheme = in.ColorTheme
	}

	if err := s.storyRepo.Update(ctx, story); err != nil {
		return nil, err
	}
	return s.storyRepo.GetByID(ctx, in.StoryID, in.CallerID)
}

// DeleteStory is owner-only with no time window.
func (s *StoryService) DeleteStory(ctx context.Context, callerID, storyID uint) error {
	story, err := s.storyRepo.GetByID(ctx, storyID, callerID)
	if err != nil {
		return err
	}
	if story.UserID != callerID {
		return models.NewForbiddenError("You can only delete your own stories")
	}
	return s.storyRepo.Delete(ctx, storyID)
}

// IncrementViews requires no authorization: views are public telemetry.
func (s *StoryService) IncrementViews(ctx context.Context, storyID uint) (int, error) {
	return s.storyRepo.IncrementViews(ctx, storyID)
}

// ToggleResonance flips the caller's resonance and reports the new state.
func (s *StoryService) ToggleResonance(ctx context.Context, callerID, storyID uint) (*ResonanceResult, error) {
	if _, err := s.storyRepo.GetByID(ctx, storyID, callerID); err != nil {
		return nil, err
	}

	resonating, err := s.storyRepo.ToggleResonance(ctx, callerID, storyID)
	if err != nil {
		return nil, err
	}
	count, err := s.storyRepo.ResonanceCount(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return &ResonanceResult{ResonanceCount: count, Resonating: resonating}, nil
}

func (s *StoryService) notifyMention(ctx context.Context, userID, actorID uint, storyID uint) {
	if s.notifyRepo == nil || userID == actorID {
		return
	}
	_ = s.notifyRepo.Create(ctx, &models.Notification{
		UserID:  userID,
		ActorID: actorID,
		Kind:    models.NotificationMention,
		StoryID: &storyID,
	})
}
