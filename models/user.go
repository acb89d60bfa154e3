package models

import "time"

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is what the authentication gate resolves a bearer token to.
type Identity struct {
	UserID int
	Email  string
}
