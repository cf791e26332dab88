// Package service holds the domain services between HTTP handlers and
// repositories. Services own validation and the mutation policy checks.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quill/internal/cache"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
)

const (
	maxPoemTitleLen   = 200
	maxPoemContentLen = 10000

	// defaultPoemsLimit matches the handler's default page size; only
	// that page is served from cache, so a smaller requested page can
	// never be replayed to a caller asking for a full one.
	defaultPoemsLimit = 20
)

// PoemService orchestrates the poem lifecycle: create/edit/delete within
// the edit window, likes, annotations and collection saves.
type PoemService struct {
	poemRepo       repository.PoemRepository
	userRepo       repository.UserRepository
	collectionRepo repository.CollectionRepository
	notifyRepo     repository.NotificationRepository
	now            func() time.Time
}

// NewPoemService creates a new poem service.
func NewPoemService(
	poemRepo repository.PoemRepository,
	userRepo repository.UserRepository,
	collectionRepo repository.CollectionRepository,
	notifyRepo repository.NotificationRepository,
) *PoemService {
	return &PoemService{
		poemRepo:       poemRepo,
		userRepo:       userRepo,
		collectionRepo: collectionRepo,
		notifyRepo:     notifyRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

type CreatePoemInput struct {
	AuthorID    uint
	Title       string
	Content     string
	Theme       string
	Mood        string
	Source      string
	CoAuthorIDs []uint
}

type UpdatePoemInput struct {
	CallerID uint
	PoemID   uint
	Title    string
	Content  string
	Theme    string
	Mood     string
}

type AnnotateInput struct {
	CallerID  uint
	PoemID    uint
	LineIndex int
	Content   string
}

func (s *PoemService) CreatePoem(ctx context.Context, in CreatePoemInput) (*models.Poem, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Title) > maxPoemTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Content) > maxPoemContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	poem := &models.Poem{
		Title:   in.Title,
		Content: in.Content,
		// Display name frozen at creation time; later renames do not
		// propagate to existing poems.
		AuthorName: author.Username,
		AuthorID:   in.AuthorID,
		Theme:      in.Theme,
		Mood:       in.Mood,
		Source:     in.Source,
	}
	if poem.Theme == "" {
		poem.Theme = "general"
	}
	if poem.Mood == "" {
		poem.Mood = "neutral"
	}
	if poem.Source == "" {
		poem.Source = "user-created"
	}

	for _, id := range in.CoAuthorIDs {
		if id == in.AuthorID {
			continue
		}
		coAuthor, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		poem.CoAuthors = append(poem.CoAuthors, *coAuthor)
	}

	if err := s.poemRepo.Create(ctx, poem); err != nil {
		return nil, err
	}
	return s.poemRepo.GetByID(ctx, poem.ID, in.AuthorID)
}

func (s *PoemService) ListPoems(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	var poems []*models.Poem
	var err error

	if offset == 0 && limit == defaultPoemsLimit {
		err = cache.Aside(ctx, cache.PoemsListKey, &poems, cache.ListTTL, func() error {
			var fetchErr error
			poems, fetchErr = s.poemRepo.List(ctx, limit, offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}

		// Re-enrich with the caller's liked status; the cached entry is
		// computed for an anonymous reader.
		if currentUserID != 0 && len(poems) > 0 {
			poemIDs := make([]uint, len(poems))
			for i, p := range poems {
				poemIDs[i] = p.ID
			}
			likedIDs, likedErr := s.poemRepo.LikedPoemIDs(ctx, currentUserID, poemIDs)
			if likedErr == nil {
				likedMap := make(map[uint]bool, len(likedIDs))
				for _, id := range likedIDs {
					likedMap[id] = true
				}
				for _, p := range poems {
					p.Liked = likedMap[p.ID]
				}
			}
		}
		return poems, nil
	}

	return s.poemRepo.List(ctx, limit, offset, currentUserID)
}

// GetPoem returns a single poem. Anonymous reads are served through the
// cache; a signed-in caller bypasses it because the liked flag is theirs.
func (s *PoemService) GetPoem(ctx context.Context, id uint, currentUserID uint) (*models.Poem, error) {
	if currentUserID == 0 {
		var poem models.Poem
		err := cache.Aside(ctx, cache.PoemKey(id), &poem, cache.PoemTTL, func() error {
			fetched, fetchErr := s.poemRepo.GetByID(ctx, id, 0)
			if fetchErr != nil {
				return fetchErr
			}
			poem = *fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &poem, nil
	}
	return s.poemRepo.GetByID(ctx, id, currentUserID)
}

// GetUserPoems lists poems on an author's public page.
func (s *PoemService) GetUserPoems(ctx context.Context, username string, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.poemRepo.GetByAuthorID(ctx, user.ID, limit, offset, currentUserID)
}

// Feed lists poems by authors the caller follows.
func (s *PoemService) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Poem, error) {
	authorIDs, err := s.userRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.poemRepo.Feed(ctx, authorIDs, limit, offset, userID)
}

// UpdatePoem applies a partial update inside the edit window. Empty
// fields are skipped, so a field cannot be cleared through this path.
func (s *PoemService) UpdatePoem(ctx context.Context, in UpdatePoemInput) (*models.Poem, error) {
	poem, err := s.poemRepo.GetByID(ctx, in.PoemID, in.CallerID)
	if err != nil {
		return nil, err
	}

	if err := s.checkMutable(poem.AuthorID, in.CallerID, poem.CreatedAt); err != nil {
		return nil, err
	}

	if in.Title != "" {
		poem.Title = in.Title
	}
	if in.Content != "" {
		poem.Content = in.Content
	}
	if in.Theme != "" {
		poem.Theme = in.Theme
	}
	if in.Mood != "" {
		poem.Mood = in.Mood
	}

	if err := s.poemRepo.Update(ctx, poem); err != nil {
		return nil, err
	}
	return s.poemRepo.GetByID(ctx, in.PoemID, in.CallerID)
}

// DeletePoem is author-only but has no time window, unlike edit.
func (s *PoemService) DeletePoem(ctx context.Context, callerID, poemID uint) error {
	poem, err := s.poemRepo.GetByID(ctx, poemID, callerID)
	if err != nil {
		return err
	}
	if poem.AuthorID != callerID {
		return models.NewForbiddenError("You can only delete your own poems")
	}
	return s.poemRepo.Delete(ctx, poemID)
}

// LikePoem is an explicit add-or-reject, not a toggle: liking an already
// liked poem is a Conflict. A concurrent duplicate insert loses the
// conditional write and surfaces as the same Conflict.
func (s *PoemService) LikePoem(ctx context.Context, callerID, poemID uint) (*models.Poem, error) {
	poem, err := s.poemRepo.GetByID(ctx, poemID, callerID)
	if err != nil {
		return nil, err
	}

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	inserted, err := s.poemRepo.Like(ctx, callerID, poemID, caller.Username)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, models.NewConflictError("Poem already liked")
	}

	s.notify(ctx, poem.AuthorID, callerID, models.NotificationLike, &poemID, nil)

	return s.poemRepo.GetByID(ctx, poemID, callerID)
}

// UnlikePoem removes the caller's like if present; it is idempotent.
func (s *PoemService) UnlikePoem(ctx context.Context, callerID, poemID uint) (*models.Poem, error) {
	if _, err := s.poemRepo.GetByID(ctx, poemID, callerID); err != nil {
		return nil, err
	}
	if err := s.poemRepo.Unlike(ctx, callerID, poemID); err != nil {
		return nil, err
	}
	return s.poemRepo.GetByID(ctx, poemID, callerID)
}

// Annotate appends a line-level annotation. The line index is validated
// against the poem content as it exists now.
func (s *PoemService) Annotate(ctx context.Context, in AnnotateInput) (*models.Annotation, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Annotation content is required")
	}

	poem, err := s.poemRepo.GetByID(ctx, in.PoemID, in.CallerID)
	if err != nil {
		return nil, err
	}

	lineCount := len(poem.Lines())
	if in.LineIndex < 0 || in.LineIndex >= lineCount {
		return nil, models.NewValidationError("Line index out of range")
	}

	caller, err := s.userRepo.GetByID(ctx, in.CallerID)
	if err != nil {
		return nil, err
	}

	annotation := &models.Annotation{
		PoemID:    in.PoemID,
		LineIndex: in.LineIndex,
		UserID:    in.CallerID,
		Username:  caller.Username,
		Content:   in.Content,
	}
	if err := s.poemRepo.CreateAnnotation(ctx, annotation); err != nil {
		return nil, err
	}

	s.notify(ctx, poem.AuthorID, in.CallerID, models.NotificationAnnotation, &in.PoemID, nil)

	return annotation, nil
}

// ListAnnotations returns a poem's annotations in append order.
func (s *PoemService) ListAnnotations(ctx context.Context, poemID uint) ([]models.Annotation, error) {
	if _, err := s.poemRepo.GetByID(ctx, poemID, 0); err != nil {
		return nil, err
	}
	return s.poemRepo.ListAnnotations(ctx, poemID)
}

// DeleteAnnotation removes an annotation; only its author may do so.
func (s *PoemService) DeleteAnnotation(ctx context.Context, callerID, poemID, annotationID uint) error {
	annotation, err := s.poemRepo.GetAnnotation(ctx, poemID, annotationID)
	if err != nil {
		return err
	}
	if annotation.UserID != callerID {
		return models.NewForbiddenError("You can only delete your own annotations")
	}
	return s.poemRepo.DeleteAnnotation(ctx, poemID, annotationID)
}

// SaveToCollection toggles the poem's membership in the caller's named
// collection and returns whether it is saved after the call.
func (s *PoemService) SaveToCollection(ctx context.Context, callerID, poemID uint, collectionName string) (bool, error) {
	if collectionName == "" {
		return false, models.NewValidationError("Collection name is required")
	}

	if _, err := s.poemRepo.GetByID(ctx, poemID, callerID); err != nil {
		return false, err
	}

	collection, err := s.collectionRepo.GetByOwnerAndName(ctx, callerID, collectionName)
	if err != nil {
		return false, err
	}
	if collection == nil {
		return false, models.NewNotFoundError("Collection", collectionName)
	}

	return s.collectionRepo.TogglePoem(ctx, collection.ID, poemID)
}

// checkMutable maps the policy result onto the API error taxonomy.
func (s *PoemService) checkMutable(ownerID, callerID uint, createdAt time.Time) error {
	err := policy.CanMutate(ownerID, callerID, createdAt, policy.EditWindow, s.now())
	switch {
	case errors.Is(err, policy.ErrNotOwner):
		return models.NewForbiddenError("You can only edit your own poems")
	case errors.Is(err, policy.ErrWindowExpired):
		return models.NewWindowExpiredError("Edit window has expired")
	}
	return err
}

// notify records a notification best-effort; a failure must not fail the
// triggering action.
func (s *PoemService) notify(ctx context.Context, userID, actorID uint, kind string, poemID, storyID *uint) {
	if s.notifyRepo == nil || userID == actorID {
		return
	}
	n := &models.Notification{
		UserID:  userID,
		ActorID: actorID,
		Kind:    kind,
		PoemID:  poemID,
		StoryID: storyID,
	}
	if err := s.notifyRepo.Create(ctx, n); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to record notification",
			slog.String("kind", kind), slog.String("error", err.Error()))
	}
}
