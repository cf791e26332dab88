package service

import (
	"context"
	"strings"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SearchUsers_ShortQuery(t *testing.T) {
	t.Parallel()

	searched := false
	userRepo := noopUserRepo()
	userRepo.searchFn = func(_ context.Context, _ string, _ int) ([]models.User, error) {
		searched = true
		return nil, nil
	}

	svc := NewUserService(userRepo, &notifyRepoStub{})
	ctx := context.Background()

	for _, query := range []string{"", "a"} {
		users, err := svc.SearchUsers(ctx, query)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	}
	assert.False(t, searched, "repo must not be queried for short queries")

	_, err := svc.SearchUsers(ctx, "ab")
	require.NoError(t, err)
	assert.True(t, searched)
}

func TestUserService_GetProfile_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo(), &notifyRepoStub{})
	_, err := svc.GetProfile(context.Background(), "ghost")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("taken username conflicts", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "original"}, nil
		}
		userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 99, Username: username}, nil
		}

		svc := NewUserService(userRepo, &notifyRepoStub{})
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "taken"})
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("empty fields are skipped", func(t *testing.T) {
		var updated *models.User
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "original", Bio: "old bio", Twitter: "old_tw"}, nil
		}
		userRepo.updateFn = func(_ context.Context, u *models.User) error {
			updated = u
			return nil
		}

		svc := NewUserService(userRepo, &notifyRepoStub{})
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: "new bio"})
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, "original", updated.Username)
		assert.Equal(t, "new bio", updated.Bio)
		assert.Equal(t, "old_tw", updated.Twitter)
	})

	t.Run("invalid username format", func(t *testing.T) {
		svc := NewUserService(noopUserRepo(), &notifyRepoStub{})
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "bad name!"})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("bio too long", func(t *testing.T) {
		svc := NewUserService(noopUserRepo(), &notifyRepoStub{})
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: strings.Repeat("x", 301)})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestUserService_ToggleFollow(t *testing.T) {
	t.Parallel()

	t.Run("self follow rejected", func(t *testing.T) {
		svc := NewUserService(noopUserRepo(), &notifyRepoStub{})
		_, err := svc.ToggleFollow(context.Background(), 1, 1)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("unknown followee", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}

		svc := NewUserService(userRepo, &notifyRepoStub{})
		_, err := svc.ToggleFollow(context.Background(), 1, 2)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("follow notifies and unfollow does not", func(t *testing.T) {
		userRepo := noopUserRepo()
		following := false
		userRepo.toggleFollowFn = func(_ context.Context, _, _ uint) (bool, error) {
			following = !following
			return following, nil
		}
		notifyRepo := &notifyRepoStub{}

		svc := NewUserService(userRepo, notifyRepo)
		ctx := context.Background()

		result, err := svc.ToggleFollow(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, result.Following)
		assert.Len(t, notifyRepo.created, 1)

		result, err = svc.ToggleFollow(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, result.Following)
		assert.Len(t, notifyRepo.created, 1, "unfollow must not notify")
	})
}
