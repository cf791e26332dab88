package service

import (
	"context"
	"errors"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poemRepoStub is a stub for repository.PoemRepository.
type poemRepoStub struct {
	createFn           func(context.Context, *models.Poem) error
	getByIDFn          func(context.Context, uint, uint) (*models.Poem, error)
	getByAuthorIDFn    func(context.Context, uint, int, int, uint) ([]*models.Poem, error)
	listFn             func(context.Context, int, int, uint) ([]*models.Poem, error)
	feedFn             func(context.Context, []uint, int, int, uint) ([]*models.Poem, error)
	updateFn           func(context.Context, *models.Poem) error
	deleteFn           func(context.Context, uint) error
	likeFn             func(context.Context, uint, uint, string) (bool, error)
	unlikeFn           func(context.Context, uint, uint) error
	likedPoemIDsFn     func(context.Context, uint, []uint) ([]uint, error)
	createAnnotationFn func(context.Context, *models.Annotation) error
	getAnnotationFn    func(context.Context, uint, uint) (*models.Annotation, error)
	listAnnotationsFn  func(context.Context, uint) ([]models.Annotation, error)
	deleteAnnotationFn func(context.Context, uint, uint) error
}

func (s *poemRepoStub) Create(ctx context.Context, poem *models.Poem) error {
	return s.createFn(ctx, poem)
}
func (s *poemRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Poem, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *poemRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	return s.getByAuthorIDFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *poemRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *poemRepoStub) Feed(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) ([]*models.Poem, error) {
	return s.feedFn(ctx, authorIDs, limit, offset, currentUserID)
}
func (s *poemRepoStub) Update(ctx context.Context, poem *models.Poem) error {
	return s.updateFn(ctx, poem)
}
func (s *poemRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *poemRepoStub) Like(ctx context.Context, userID, poemID uint, username string) (bool, error) {
	return s.likeFn(ctx, userID, poemID, username)
}
func (s *poemRepoStub) Unlike(ctx context.Context, userID, poemID uint) error {
	return s.unlikeFn(ctx, userID, poemID)
}
func (s *poemRepoStub) LikedPoemIDs(ctx context.Context, userID uint, poemIDs []uint) ([]uint, error) {
	return s.likedPoemIDsFn(ctx, userID, poemIDs)
}
func (s *poemRepoStub) CreateAnnotation(ctx context.Context, annotation *models.Annotation) error {
	return s.createAnnotationFn(ctx, annotation)
}
func (s *poemRepoStub) GetAnnotation(ctx context.Context, poemID, annotationID uint) (*models.Annotation, error) {
	return s.getAnnotationFn(ctx, poemID, annotationID)
}
func (s *poemRepoStub) ListAnnotations(ctx context.Context, poemID uint) ([]models.Annotation, error) {
	return s.listAnnotationsFn(ctx, poemID)
}
func (s *poemRepoStub) DeleteAnnotation(ctx context.Context, poemID, annotationID uint) error {
	return s.deleteAnnotationFn(ctx, poemID, annotationID)
}

func noopPoemRepo() *poemRepoStub {
	return &poemRepoStub{
		createFn:  func(_ context.Context, _ *models.Poem) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Poem, error) { return &models.Poem{}, nil },
		getByAuthorIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Poem, error) {
			return nil, nil
		},
		listFn: func(_ context.Context, _, _ int, _ uint) ([]*models.Poem, error) { return nil, nil },
		feedFn: func(_ context.Context, _ []uint, _, _ int, _ uint) ([]*models.Poem, error) {
			return nil, nil
		},
		updateFn:           func(_ context.Context, _ *models.Poem) error { return nil },
		deleteFn:           func(_ context.Context, _ uint) error { return nil },
		likeFn:             func(_ context.Context, _, _ uint, _ string) (bool, error) { return true, nil },
		unlikeFn:           func(_ context.Context, _, _ uint) error { return nil },
		likedPoemIDsFn:     func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		createAnnotationFn: func(_ context.Context, _ *models.Annotation) error { return nil },
		getAnnotationFn: func(_ context.Context, _, _ uint) (*models.Annotation, error) {
			return &models.Annotation{}, nil
		},
		listAnnotationsFn:  func(_ context.Context, _ uint) ([]models.Annotation, error) { return nil, nil },
		deleteAnnotationFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	searchFn        func(context.Context, string, int) ([]models.User, error)
	trendingFn      func(context.Context, int) ([]models.User, error)
	toggleFollowFn  func(context.Context, uint, uint) (bool, error)
	isFollowingFn   func(context.Context, uint, uint) (bool, error)
	followeeIDsFn   func(context.Context, uint) ([]uint, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *userRepoStub) Trending(ctx context.Context, limit int) ([]models.User, error) {
	return s.trendingFn(ctx, limit)
}
func (s *userRepoStub) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.toggleFollowFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followeeIDsFn(ctx, followerID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "poet"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		searchFn:        func(_ context.Context, _ string, _ int) ([]models.User, error) { return nil, nil },
		trendingFn:      func(_ context.Context, _ int) ([]models.User, error) { return nil, nil },
		toggleFollowFn:  func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn:   func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followeeIDsFn:   func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

// storyRepoStub is a stub for repository.StoryRepository.
type storyRepoStub struct {
	createFn          func(context.Context, *models.Story) error
	getByIDFn         func(context.Context, uint, uint) (*models.Story, error)
	listFn            func(context.Context, int, uint) ([]*models.Story, error)
	updateFn          func(context.Context, *models.Story) error
	deleteFn          func(context.Context, uint) error
	incrementViewsFn  func(context.Context, uint) (int, error)
	toggleResonanceFn func(context.Context, uint, uint) (bool, error)
	resonanceCountFn  func(context.Context, uint) (int, error)
	deleteExpiredFn   func(context.Context) (int64, error)
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story) error {
	return s.createFn(ctx, story)
}
func (s *storyRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Story, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *storyRepoStub) List(ctx context.Context, limit int, currentUserID uint) ([]*models.Story, error) {
	return s.listFn(ctx, limit, currentUserID)
}
func (s *storyRepoStub) Update(ctx context.Context, story *models.Story) error {
	return s.updateFn(ctx, story)
}
func (s *storyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *storyRepoStub) IncrementViews(ctx context.Context, id uint) (int, error) {
	return s.incrementViewsFn(ctx, id)
}
func (s *storyRepoStub) ToggleResonance(ctx context.Context, userID, storyID uint) (bool, error) {
	return s.toggleResonanceFn(ctx, userID, storyID)
}
func (s *storyRepoStub) ResonanceCount(ctx context.Context, storyID uint) (int, error) {
	return s.resonanceCountFn(ctx, storyID)
}
func (s *storyRepoStub) DeleteExpired(ctx context.Context) (int64, error) {
	return s.deleteExpiredFn(ctx)
}

func noopStoryRepo() *storyRepoStub {
	return &storyRepoStub{
		createFn:          func(_ context.Context, _ *models.Story) error { return nil },
		getByIDFn:         func(_ context.Context, _, _ uint) (*models.Story, error) { return &models.Story{}, nil },
		listFn:            func(_ context.Context, _ int, _ uint) ([]*models.Story, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Story) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		incrementViewsFn:  func(_ context.Context, _ uint) (int, error) { return 1, nil },
		toggleResonanceFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		resonanceCountFn:  func(_ context.Context, _ uint) (int, error) { return 0, nil },
		deleteExpiredFn:   func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// collectionRepoStub is a stub for repository.CollectionRepository.
type collectionRepoStub struct {
	createFn            func(context.Context, *models.Collection) error
	getByOwnerAndNameFn func(context.Context, uint, string) (*models.Collection, error)
	listByOwnerFn       func(context.Context, uint) ([]models.Collection, error)
	togglePoemFn        func(context.Context, uint, uint) (bool, error)
	listPoemsFn         func(context.Context, uint, uint) ([]*models.Poem, error)
}

func (s *collectionRepoStub) Create(ctx context.Context, collection *models.Collection) error {
	return s.createFn(ctx, collection)
}
func (s *collectionRepoStub) GetByOwnerAndName(ctx context.Context, ownerID uint, name string) (*models.Collection, error) {
	return s.getByOwnerAndNameFn(ctx, ownerID, name)
}
func (s *collectionRepoStub) ListByOwner(ctx context.Context, ownerID uint) ([]models.Collection, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *collectionRepoStub) TogglePoem(ctx context.Context, collectionID, poemID uint) (bool, error) {
	return s.togglePoemFn(ctx, collectionID, poemID)
}
func (s *collectionRepoStub) ListPoems(ctx context.Context, collectionID, currentUserID uint) ([]*models.Poem, error) {
	return s.listPoemsFn(ctx, collectionID, currentUserID)
}

func noopCollectionRepo() *collectionRepoStub {
	return &collectionRepoStub{
		createFn: func(_ context.Context, _ *models.Collection) error { return nil },
		getByOwnerAndNameFn: func(_ context.Context, _ uint, _ string) (*models.Collection, error) {
			return &models.Collection{ID: 1}, nil
		},
		listByOwnerFn: func(_ context.Context, _ uint) ([]models.Collection, error) { return nil, nil },
		togglePoemFn:  func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listPoemsFn:   func(_ context.Context, _, _ uint) ([]*models.Poem, error) { return nil, nil },
	}
}

// notifyRepoStub is a stub for repository.NotificationRepository that
// records created notifications.
type notifyRepoStub struct {
	created []*models.Notification
	err     error
}

func (s *notifyRepoStub) Create(_ context.Context, notification *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, notification)
	return nil
}
func (s *notifyRepoStub) ListByUser(_ context.Context, _ uint, _, _ int) ([]models.Notification, error) {
	return nil, nil
}
func (s *notifyRepoStub) UnreadCount(_ context.Context, _ uint) (int64, error) { return 0, nil }
func (s *notifyRepoStub) MarkAllRead(_ context.Context, _ uint) error         { return nil }

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
