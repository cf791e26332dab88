package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"quill/internal/models"

	"gorm.io/gorm"
)

var defaultCollectionNames = []string{
	"Favorites", "Late Night", "To Revisit", "Inspiration",
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	r       *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		r:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data, child tables first.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, collection_poems, collections, resonances, story_mentions, stories, annotations, likes, poem_co_authors, poems, follows, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedPoetryMesh creates users, poems and a follow graph between them.
func (s *Seeder) SeedPoetryMesh(numUsers int) ([]*models.User, error) {
	log.Printf("🌱 Seeding %d users with poems and follows...", numUsers)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%50 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}

	// Each user follows a handful of others.
	for _, follower := range users {
		numFollows := s.r.Intn(6) + 1
		for j := 0; j < numFollows; j++ {
			followee := users[s.r.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			// Duplicate edges hit the unique index; ignore them.
			_ = s.factory.CreateFollow(follower, followee)
		}
	}
	log.Printf("✓ %d users created with follow graph", len(users))

	return users, nil
}

// SeedEngagement creates poems, likes, annotations, stories and collections
// on top of an existing user mesh.
func (s *Seeder) SeedEngagement(users []*models.User, numPoems int) ([]*models.Poem, error) {
	log.Printf("🌱 Seeding %d poems with engagement...", numPoems)

	poems := make([]*models.Poem, 0, numPoems)
	for i := 0; i < numPoems; i++ {
		author := users[s.r.Intn(len(users))]
		poem, err := s.factory.CreatePoem(author)
		if err != nil {
			return nil, fmt.Errorf("failed to create poem: %w", err)
		}
		poems = append(poems, poem)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d poems...", i)
		}
	}

	// Likes and annotations from random readers.
	for _, poem := range poems {
		numLikes := s.r.Intn(8)
		for j := 0; j < numLikes; j++ {
			_ = s.factory.CreateLike(users[s.r.Intn(len(users))], poem)
		}
		if s.r.Float32() < 0.4 {
			if _, err := s.factory.CreateAnnotation(users[s.r.Intn(len(users))], poem); err != nil {
				return nil, fmt.Errorf("failed to create annotation: %w", err)
			}
		}
	}
	log.Printf("✓ %d poems created with likes and annotations", len(poems))

	// A third of the users have a live story.
	storyCount := 0
	for _, user := range users {
		if s.r.Float32() > 0.33 {
			continue
		}
		story, err := s.factory.CreateStory(user)
		if err != nil {
			return nil, fmt.Errorf("failed to create story: %w", err)
		}
		storyCount++

		numResonances := s.r.Intn(5)
		for j := 0; j < numResonances; j++ {
			_ = s.factory.CreateResonance(users[s.r.Intn(len(users))], story)
		}
	}
	log.Printf("✓ %d stories created", storyCount)

	// Some users keep collections with a few saved poems.
	collectionCount := 0
	for _, user := range users {
		if s.r.Float32() > 0.25 {
			continue
		}
		name := defaultCollectionNames[s.r.Intn(len(defaultCollectionNames))]
		collection, err := s.factory.CreateCollection(user, name)
		if err != nil {
			continue
		}
		collectionCount++

		numSaved := s.r.Intn(5) + 1
		for j := 0; j < numSaved; j++ {
			poem := poems[s.r.Intn(len(poems))]
			_ = s.db.Create(&models.CollectionPoem{
				CollectionID: collection.ID,
				PoemID:       poem.ID,
			}).Error
		}
	}
	log.Printf("✓ %d collections created", collectionCount)

	return poems, nil
}
