package model

import "time"

// User represents a registered artist account. Usernames are case-folded to
// lowercase before storage.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:80;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// TableName keeps the legacy table name.
func (User) TableName() string { return "users" }
