package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// Passwords are stored as bcrypt hashes in Password field and never leave the
// application layer.
type User struct {
	ID        string
	Username  string
	Password  string
	Email     string
	FullName  string
	Bio       string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Author is the public identity of a user, resolved onto posts and comments
// so renderers need no extra lookup.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Public returns the author view of u.
func (u *User) Public() Author {
	return Author{ID: u.ID, Username: u.Username, FullName: u.FullName, AvatarURL: u.AvatarURL}
}
