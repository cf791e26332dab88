package models

import "time"

// StoryTTL is how long a story stays readable after creation.
const StoryTTL = 24 * time.Hour

// MaxStoryContentLen caps story content length in characters.
const MaxStoryContentLen = 200

// StoryColorThemes are the accepted color theme values.
var StoryColorThemes = []string{"blue", "purple", "emerald", "rose", "amber"}

// ValidStoryColorTheme reports whether theme is one of the accepted values.
func ValidStoryColorTheme(theme string) bool {
	for _, t := range StoryColorThemes {
		if t == theme {
			return true
		}
	}
	return false
}

// Story is an ephemeral post that disappears 24 hours after creation.
// ExpiresAt is set once at creation; read paths filter on it and a
// background reaper hard-deletes expired rows.
type Story struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Username   string `gorm:"not null" json:"username"`
	Content    string `gorm:"size:200;not null" json:"content"`
	ColorTheme string `gorm:"default:blue" json:"color_theme"`
	// Views is a public monotonic counter; incremented without auth.
	Views     int       `gorm:"not null;default:0" json:"views"`
	Mentions  []User    `gorm:"many2many:story_mentions" json:"mentions,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// ResonanceCount and Resonating are not persisted; computed at query time
	ResonanceCount int  `gorm:"->" json:"resonance_count"`
	Resonating     bool `gorm:"->" json:"resonating"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Resonance represents a user's resonance toggle on a story.
// The combination of UserID and StoryID must be unique.
type Resonance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_story" json:"user_id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_user_story" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Story Story `gorm:"foreignKey:StoryID" json:"-"`
}
