package models

import "time"

// Collection is a named, owned set of poems. Name is unique per owner,
// case-insensitively; the repository enforces this on create.
type Collection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `gorm:"default:true" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PoemCount is not persisted; computed at query time
	PoemCount int `gorm:"->" json:"poem_count"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

// CollectionPoem is a membership row. Append order (ascending IDs) is the
// collection's display order. The combination of CollectionID and PoemID
// must be unique.
type CollectionPoem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_collection_poem" json:"collection_id"`
	PoemID       uint      `gorm:"not null;uniqueIndex:idx_collection_poem" json:"poem_id"`
	CreatedAt    time.Time `json:"created_at"`

	Collection Collection `gorm:"foreignKey:CollectionID" json:"-"`
	Poem       Poem       `gorm:"foreignKey:PoemID" json:"-"`
}
