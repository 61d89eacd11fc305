package models

import "time"

// Share is an append-only event. UserID is nil for anonymous shares and the
// same user may share the same post any number of times.
type Share struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PostID    int       `gorm:"not null;index" json:"post_id"`
	UserID    *int      `gorm:"index" json:"user_id,omitempty"`
	Platform  string    `gorm:"not null" json:"platform"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ShareRequest struct {
	Platform string `json:"platform"`
	Message  string `json:"message"`
}
