package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoemService(poemRepo *poemRepoStub, userRepo *userRepoStub, collectionRepo *collectionRepoStub, notifyRepo *notifyRepoStub) *PoemService {
	return NewPoemService(poemRepo, userRepo, collectionRepo, notifyRepo)
}

func TestPoemService_CreatePoem_Validation(t *testing.T) {
	t.Parallel()

	svc := newPoemService(noopPoemRepo(), noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePoemInput
	}{
		{
			name:  "empty title",
			input: CreatePoemInput{AuthorID: 1, Content: "some lines"},
		},
		{
			name:  "empty content",
			input: CreatePoemInput{AuthorID: 1, Title: "T"},
		},
		{
			name:  "title too long",
			input: CreatePoemInput{AuthorID: 1, Title: strings.Repeat("x", 201), Content: "c"},
		},
		{
			name:  "content too long",
			input: CreatePoemInput{AuthorID: 1, Title: "T", Content: strings.Repeat("x", 10001)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePoem(ctx, tt.input)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestPoemService_CreatePoem_SnapshotAndDefaults(t *testing.T) {
	t.Parallel()

	var created *models.Poem
	poemRepo := noopPoemRepo()
	poemRepo.createFn = func(_ context.Context, p *models.Poem) error {
		p.ID = 7
		created = p
		return nil
	}
	poemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Poem, error) {
		return &models.Poem{ID: id}, nil
	}
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "verse_smith"}, nil
	}

	svc := newPoemService(poemRepo, userRepo, noopCollectionRepo(), &notifyRepoStub{})

	_, err := svc.CreatePoem(context.Background(), CreatePoemInput{
		AuthorID: 3,
		Title:    "October",
		Content:  "line one\nline two",
		// Author listed among co-authors must be dropped.
		CoAuthorIDs: []uint{3},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "verse_smith", created.AuthorName)
	assert.Equal(t, "general", created.Theme)
	assert.Equal(t, "neutral", created.Mood)
	assert.Equal(t, "user-created", created.Source)
	assert.Empty(t, created.CoAuthors)
}

func TestPoemService_UpdatePoem_EditWindow(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		callerID  uint
		elapsed   time.Duration
		wantCode  string
		wantError bool
	}{
		{name: "owner inside window", callerID: 1, elapsed: 9 * time.Minute},
		{name: "owner exactly at boundary", callerID: 1, elapsed: 10 * time.Minute},
		{name: "owner past window", callerID: 1, elapsed: 10*time.Minute + time.Second, wantError: true, wantCode: models.CodeWindowExpired},
		{name: "non-owner inside window", callerID: 2, elapsed: time.Minute, wantError: true, wantCode: models.CodeForbidden},
		{name: "non-owner past window", callerID: 2, elapsed: time.Hour, wantError: true, wantCode: models.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poemRepo := noopPoemRepo()
			poemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Poem, error) {
				return &models.Poem{ID: id, AuthorID: 1, Title: "Old", Content: "c", CreatedAt: base}, nil
			}

			svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
			svc.now = func() time.Time { return base.Add(tt.elapsed) }

			_, err := svc.UpdatePoem(context.Background(), UpdatePoemInput{
				CallerID: tt.callerID,
				PoemID:   1,
				Title:    "New",
			})
			if tt.wantError {
				assertAppErrorCode(t, err, tt.wantCode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPoemService_UpdatePoem_SkipsEmptyFields(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var updated *models.Poem
	poemRepo := noopPoemRepo()
	poemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Poem, error) {
		return &models.Poem{ID: id, AuthorID: 1, Title: "Old Title", Content: "old content", Theme: "nature", Mood: "wistful", CreatedAt: base}, nil
	}
	poemRepo.updateFn = func(_ context.Context, p *models.Poem) error {
		updated = p
		return nil
	}

	svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	svc.now = func() time.Time { return base.Add(time.Minute) }

	_, err := svc.UpdatePoem(context.Background(), UpdatePoemInput{
		CallerID: 1,
		PoemID:   1,
		Title:    "New Title",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "old content", updated.Content)
	assert.Equal(t, "nature", updated.Theme)
	assert.Equal(t, "wistful", updated.Mood)
}

func TestPoemService_DeletePoem_OwnerOnly(t *testing.T) {
	t.Parallel()

	poemRepo := noopPoemRepo()
	poemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Poem, error) {
		return &models.Poem{ID: id, AuthorID: 1, CreatedAt: time.Now().Add(-48 * time.Hour)}, nil
	}

	svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	ctx := context.Background()

	// Deletion has no window; an old poem is still deletable by its author.
	assert.NoError(t, svc.DeletePoem(ctx, 1, 1))

	err := svc.DeletePoem(ctx, 2, 1)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestPoemService_LikePoem(t *testing.T) {
	t.Parallel()

	t.Run("second like conflicts", func(t *testing.T) {
		poemRepo := noopPoemRepo()
		poemRepo.likeFn = func(_ context.Context, _, _ uint, _ string) (bool, error) { return false, nil }

		svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
		_, err := svc.LikePoem(context.Background(), 1, 5)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("like notifies the author", func(t *testing.T) {
		poemRepo := noopPoemRepo()
		poemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Poem, error) {
			return &models.Poem{ID: id, AuthorID: 9}, nil
		}
		notifyRepo := &notifyRepoStub{}

		svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), notifyRepo)
		_, err := svc.LikePoem(context.Background(), 1, 5)
		require.NoError(t, err)

		require.Len(t, notifyRepo.created, 1)
		assert.Equal(t, uint(9), notifyRepo.created[0].UserID)
		assert.Equal(t, uint(1), notifyRepo.created[0].ActorID)
		assert.Equal(t, models.NotificationLike, notifyRepo.created[0].Kind)
	})

	t.Run("liking own poem creates no notification", func(t *testing.T) {
		poemRepo := noopPoemRepo()
		poemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Poem, error) {
			return &models.Poem{ID: id, AuthorID: 1}, nil
		}
		notifyRepo := &notifyRepoStub{}

		svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), notifyRepo)
		_, err := svc.LikePoem(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Empty(t, notifyRepo.created)
	})
}

func TestPoemService_UnlikePoem_Idempotent(t *testing.T) {
	t.Parallel()

	unlikes := 0
	poemRepo := noopPoemRepo()
	poemRepo.unlikeFn = func(_ context.Context, _, _ uint) error {
		unlikes++
		return nil
	}

	svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	ctx := context.Background()

	_, err := svc.UnlikePoem(ctx, 1, 5)
	require.NoError(t, err)
	_, err = svc.UnlikePoem(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, unlikes)
}

func TestPoemService_Annotate_LineBounds(t *testing.T) {
	t.Parallel()

	poemRepo := noopPoemRepo()
	poemRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Poem, error) {
		// Three lines: valid indices are 0, 1 and 2.
		return &models.Poem{ID: id, AuthorID: 9, Content: "one\ntwo\nthree"}, nil
	}

	svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	ctx := context.Background()

	tests := []struct {
		name      string
		lineIndex int
		wantError bool
	}{
		{name: "first line", lineIndex: 0},
		{name: "last line", lineIndex: 2},
		{name: "one past last line", lineIndex: 3, wantError: true},
		{name: "negative", lineIndex: -1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Annotate(ctx, AnnotateInput{CallerID: 1, PoemID: 4, LineIndex: tt.lineIndex, Content: "note"})
			if tt.wantError {
				assertAppErrorCode(t, err, models.CodeValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("empty content", func(t *testing.T) {
		_, err := svc.Annotate(ctx, AnnotateInput{CallerID: 1, PoemID: 4, LineIndex: 0})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestPoemService_DeleteAnnotation_AuthorOnly(t *testing.T) {
	t.Parallel()

	poemRepo := noopPoemRepo()
	poemRepo.getAnnotationFn = func(_ context.Context, poemID, annotationID uint) (*models.Annotation, error) {
		return &models.Annotation{ID: annotationID, PoemID: poemID, UserID: 4}, nil
	}

	svc := newPoemService(poemRepo, noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	ctx := context.Background()

	assert.NoError(t, svc.DeleteAnnotation(ctx, 4, 1, 10))

	err := svc.DeleteAnnotation(ctx, 5, 1, 10)
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func TestPoemService_SaveToCollection(t *testing.T) {
	t.Parallel()

	t.Run("unknown collection", func(t *testing.T) {
		collectionRepo := noopCollectionRepo()
		collectionRepo.getByOwnerAndNameFn = func(_ context.Context, _ uint, _ string) (*models.Collection, error) {
			return nil, nil
		}

		svc := newPoemService(noopPoemRepo(), noopUserRepo(), collectionRepo, &notifyRepoStub{})
		_, err := svc.SaveToCollection(context.Background(), 1, 5, "Missing")
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		svc := newPoemService(noopPoemRepo(), noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
		_, err := svc.SaveToCollection(context.Background(), 1, 5, "")
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("toggle result is returned", func(t *testing.T) {
		collectionRepo := noopCollectionRepo()
		collectionRepo.togglePoemFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }

		svc := newPoemService(noopPoemRepo(), noopUserRepo(), collectionRepo, &notifyRepoStub{})
		saved, err := svc.SaveToCollection(context.Background(), 1, 5, "Favorites")
		require.NoError(t, err)
		assert.False(t, saved)
	})
}

func TestPoemService_Feed_EmptyWithoutFollows(t *testing.T) {
	t.Parallel()

	svc := newPoemService(noopPoemRepo(), noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	poems, err := svc.Feed(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, poems)
}

func TestPoemService_GetUserPoems_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newPoemService(noopPoemRepo(), noopUserRepo(), noopCollectionRepo(), &notifyRepoStub{})
	_, err := svc.GetUserPoems(context.Background(), "ghost", 20, 0, 0)
	assertAppErrorCode(t, err, models.CodeNotFound)
}
