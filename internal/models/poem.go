package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Poem is the central content entity. Content is newline-delimited text
// treated as ordered lines by annotations.
type Poem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`
	// AuthorName is a display-name snapshot captured at creation time.
	// It is intentionally not re-synced when the author renames.
	AuthorName string `gorm:"not null" json:"author_name"`
	AuthorID   uint   `gorm:"not null" json:"author_id"`
	Author     User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Theme      string `gorm:"default:general" json:"theme"`
	Mood       string `gorm:"default:neutral" json:"mood"`
	Source     string `gorm:"default:user-created" json:"source"`
	// CoAuthors hold a non-owning credit and no mutation rights.
	CoAuthors []User `gorm:"many2many:poem_co_authors" json:"co_authors,omitempty"`
	// LikeCount is not persisted; computed at query time
	LikeCount int `gorm:"->" json:"like_count"`
	// AnnotationCount is not persisted; computed at query time
	AnnotationCount int `gorm:"->" json:"annotation_count"`
	// Liked indicates whether the current requesting user liked this poem (computed)
	Liked       bool           `gorm:"->" json:"liked"`
	Annotations []Annotation   `gorm:"foreignKey:PoemID" json:"annotations,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Lines splits the poem content into its ordered lines.
func (p *Poem) Lines() []string {
	return strings.Split(p.Content, "\n")
}

// Like represents a user's like on a poem.
// The combination of UserID and PoemID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_poem" json:"user_id"`
	PoemID    uint      `gorm:"not null;uniqueIndex:idx_user_poem" json:"poem_id"`
	Username  string    `gorm:"not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Poem Poem `gorm:"foreignKey:PoemID" json:"-"`
}

// Annotation is a line-level comment on a poem. Display order is append
// order, which matches ascending IDs.
type Annotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PoemID    uint      `gorm:"not null;index" json:"poem_id"`
	LineIndex int       `gorm:"not null" json:"line_index"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Username  string    `gorm:"not null" json:"username"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
