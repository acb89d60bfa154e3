package models

import "time"

type Address struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Label     string    `json:"label"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
