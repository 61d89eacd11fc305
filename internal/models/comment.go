package models

import "time"

// MaxCommentLength is the maximum comment length in characters, counted
// after trimming surrounding whitespace.
const MaxCommentLength = 5000

type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  int       `gorm:"not null;index" json:"author_id"`
	User      User      `gorm:"foreignKey:AuthorID" json:"user"`
	PostID    int       `gorm:"not null;index" json:"post_id"`
	ParentID  *int      `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int   `json:"parent_id,omitempty"`
}
