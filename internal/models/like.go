package models

import "time"

// Like is a user's like on a post, at most one per (post, user).
type Like struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_post_user_like" json:"post_id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_post_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is independent from post likes and kept in its own table.
type CommentLike struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CommentID int       `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"comment_id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedPost is a bookmark, at most one per (post, user).
type SavedPost struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_post_user_save" json:"post_id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_post_user_save" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
