package model

import (
	"strings"
	"time"
)

const (
	// MaxNameLength is the maximum character name length.
	MaxNameLength = 20
	// MaxDescriptionLength is the maximum description length.
	MaxDescriptionLength = 1000
	// MaxTurnaroundImages is the maximum number of turnaround uploads per character.
	MaxTurnaroundImages = 8
)

// Character represents an original character record owned by one artist.
// TurnaroundImage stores the ordered turnaround filenames comma-joined,
// matching the legacy schema.
type Character struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:20;not null"`
	ArtistID        uint      `json:"artist_id" gorm:"not null;index"`
	Description     string    `json:"description" gorm:"size:1000;not null"`
	HeadshotImage   string    `json:"headshot_image" gorm:"size:255;not null"`
	TurnaroundImage string    `json:"-" gorm:"size:2048"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Artist *User `json:"-" gorm:"foreignKey:ArtistID"`
}

// TableName keeps the legacy table name.
func (Character) TableName() string { return "Original_Characters" }

// TurnaroundImages splits the comma-joined turnaround field back into the
// ordered filename list. An empty field yields an empty (non-nil) slice.
func (c *Character) TurnaroundImages() []string {
	if c.TurnaroundImage == "" {
		return []string{}
	}
	return strings.Split(c.TurnaroundImage, ",")
}

// SetTurnaroundImages stores the ordered filename list comma-joined.
func (c *Character) SetTurnaroundImages(filenames []string) {
	c.TurnaroundImage = strings.Join(filenames, ",")
}

// CharacterSummary is the listing/search projection of a character joined
// with its artist's username.
type CharacterSummary struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	HeadshotImage  string `json:"headshot_image"`
	ArtistUsername string `json:"artist_username"`
}

// CharacterDetail is the full profile view of a character.
type CharacterDetail struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	HeadshotImage    string   `json:"headshot_image"`
	TurnaroundImages []string `json:"turnaround_images"`
	Tags             []string `json:"tags"`
	ArtistID         uint     `json:"artist_id"`
	ArtistUsername   string   `json:"artist_username"`
}
