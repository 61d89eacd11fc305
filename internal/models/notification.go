package models

import "time"

type NotificationType string

const (
	NotificationTypeLike         NotificationType = "like"
	NotificationTypeComment      NotificationType = "comment"
	NotificationTypeCommentReply NotificationType = "comment_reply"
	NotificationTypeCommentLiked NotificationType = "comment.liked"
	NotificationTypeFollow       NotificationType = "follow"
	NotificationTypeShare        NotificationType = "share"
	NotificationTypeNewArticle   NotificationType = "new_article"
)

// Notification is only ever created as a side effect of another operation,
// never directly by a client request.
type Notification struct {
	ID         int              `gorm:"primaryKey" json:"id"`
	UserID     int              `gorm:"not null;index" json:"user_id"` // recipient
	FromUserID *int             `gorm:"index" json:"from_user_id,omitempty"`
	FromUser   *User            `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	PostID     *int             `gorm:"index" json:"post_id,omitempty"`
	CommentID  *int             `gorm:"index" json:"comment_id,omitempty"`
	Type       NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Message    string           `gorm:"not null" json:"message"`
	IsRead     bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
