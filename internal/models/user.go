// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in Poem Studio.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Bio       string         `gorm:"size:300" json:"bio"`
	Avatar    string         `json:"avatar"`
	Twitter   string         `json:"twitter"`
	Instagram string         `json:"instagram"`
	Website   string         `json:"website"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Poems     []Poem         `gorm:"foreignKey:AuthorID" json:"poems,omitempty"`

	// FollowerCount and FollowingCount are not persisted; computed at query time
	FollowerCount  int `gorm:"->" json:"follower_count"`
	FollowingCount int `gorm:"->" json:"following_count"`
	// PoemCount is not persisted; computed at query time
	PoemCount int `gorm:"->" json:"poem_count"`
}

// Follow represents a follower -> followee edge.
// The combination of FollowerID and FolloweeID must be unique.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"-"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"-"`
}
