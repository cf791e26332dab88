// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var poemThemes = []string{"general", "nature", "love", "loss", "city", "night"}
var poemMoods = []string{"neutral", "wistful", "joyful", "dark", "restless"}

// Options tunes factory behavior. SkipBcrypt stores a placeholder password
// hash instead of a real one, which keeps test seeding fast.
type Options struct {
	SkipBcrypt bool
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	r    *rand.Rand
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano())), opts: opts}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword := []byte("not-a-real-hash")
	if !f.opts.SkipBcrypt {
		hashedPassword, _ = bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	}
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePoem constructs and persists a sample `models.Poem` by the given author.
func (f *Factory) CreatePoem(author *models.User, overrides ...func(*models.Poem)) (*models.Poem, error) {
	lines := make([]string, 0, 8)
	for i := 0; i < f.r.Intn(6)+3; i++ {
		lines = append(lines, gofakeit.Sentence(f.r.Intn(5)+3))
	}

	poem := &models.Poem{
		Title:      gofakeit.Sentence(4),
		Content:    strings.Join(lines, "\n"),
		AuthorName: author.Username,
		AuthorID:   author.ID,
		Theme:      poemThemes[f.r.Intn(len(poemThemes))],
		Mood:       poemMoods[f.r.Intn(len(poemMoods))],
		Source:     "user-created",
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	poem.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(poem)
	}

	if err := f.db.Create(poem).Error; err != nil {
		return nil, err
	}
	return poem, nil
}

// CreateStory constructs and persists a live `models.Story` for the given user.
func (f *Factory) CreateStory(user *models.User, overrides ...func(*models.Story)) (*models.Story, error) {
	now := time.Now().UTC()
	created := now.Add(-time.Duration(f.r.Intn(20)) * time.Hour)
	story := &models.Story{
		UserID:     user.ID,
		Username:   user.Username,
		Content:    gofakeit.Sentence(f.r.Intn(8) + 4),
		ColorTheme: models.StoryColorThemes[f.r.Intn(len(models.StoryColorThemes))],
		Views:      f.r.Intn(300),
		CreatedAt:  created,
		ExpiresAt:  created.Add(models.StoryTTL),
	}

	for _, override := range overrides {
		override(story)
	}

	if err := f.db.Create(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

// CreateAnnotation persists an annotation from `user` on a line of `poem`.
func (f *Factory) CreateAnnotation(user *models.User, poem *models.Poem, overrides ...func(*models.Annotation)) (*models.Annotation, error) {
	lineCount := len(poem.Lines())
	if lineCount == 0 {
		lineCount = 1
	}
	annotation := &models.Annotation{
		PoemID:    poem.ID,
		LineIndex: f.r.Intn(lineCount),
		UserID:    user.ID,
		Username:  user.Username,
		Content:   gofakeit.Sentence(8),
	}

	for _, override := range overrides {
		override(annotation)
	}

	if err := f.db.Create(annotation).Error; err != nil {
		return nil, err
	}
	return annotation, nil
}

// CreateLike persists a like from `user` on `poem`.
func (f *Factory) CreateLike(user *models.User, poem *models.Poem) error {
	like := &models.Like{
		UserID:   user.ID,
		PoemID:   poem.ID,
		Username: user.Username,
	}
	return f.db.Create(like).Error
}

// CreateFollow persists a follow edge from follower to followee.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Create(follow).Error
}

// CreateResonance persists a resonance from `user` on `story`.
func (f *Factory) CreateResonance(user *models.User, story *models.Story) error {
	resonance := &models.Resonance{
		UserID:  user.ID,
		StoryID: story.ID,
	}
	return f.db.Create(resonance).Error
}

// CreateCollection constructs and persists a collection for the given owner.
func (f *Factory) CreateCollection(owner *models.User, name string, overrides ...func(*models.Collection)) (*models.Collection, error) {
	collection := &models.Collection{
		OwnerID:     owner.ID,
		Name:        name,
		Description: gofakeit.Sentence(6),
		IsPublic:    true,
	}

	for _, override := range overrides {
		override(collection)
	}

	if err := f.db.Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}
