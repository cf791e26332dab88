package models

import "time"

// Notification kinds.
const (
	NotificationLike       = "like"
	NotificationAnnotation = "annotation"
	NotificationFollow     = "follow"
	NotificationMention    = "mention"
)

// Notification records social activity directed at a user. Produced on
// poem likes, annotations, new followers and story mentions; consumed by
// a poll-based list endpoint.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ActorID   uint      `gorm:"not null" json:"actor_id"`
	Kind      string    `gorm:"not null" json:"kind"`
	PoemID    *uint     `json:"poem_id,omitempty"`
	StoryID   *uint     `json:"story_id,omitempty"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`

	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
