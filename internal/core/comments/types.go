package comments

import (
	"time"

	"github.com/inkstream/blog-backend/internal/models"
)

// AuthorSummary is the snapshot of a comment's author embedded in responses.
type AuthorSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// CommentView is a comment annotated with its like count, the viewer's like
// state and up to two levels of nested replies.
type CommentView struct {
	ID         int           `json:"id"`
	Content    string        `json:"content"`
	PostID     int           `json:"post_id"`
	ParentID   *int          `json:"parent_id,omitempty"`
	Author     AuthorSummary `json:"author"`
	LikesCount int64         `json:"likes_count"`
	Liked      bool          `json:"liked"`
	Replies    []CommentView `json:"replies"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CreatedComment is the response payload for a new comment: the comment plus
// the post's refreshed top-level comment count.
type CreatedComment struct {
	Comment       CommentView `json:"comment"`
	CommentsCount int64       `json:"comments_count"`
}

// PageResult is one page of a post's comment tree. Total counts only
// top-level comments; replies ride along inside their parents.
type PageResult struct {
	Comments []CommentView `json:"comments"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
}

func authorSummary(u models.User) AuthorSummary {
	return AuthorSummary{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
