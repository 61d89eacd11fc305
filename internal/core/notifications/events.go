package notifications

import (
	"fmt"

	"github.com/inkstream/blog-backend/internal/models"
)

// Event is one pending notification produced by a core operation. Operations
// return event lists instead of writing notifications inline so that the
// triggering write commits independently of notification delivery.
type Event struct {
	Type       models.NotificationType
	UserID     int // recipient
	FromUserID int
	PostID     *int
	CommentID  *int
	Message    string
}

// ForRecipient builds an event unless the actor is the recipient.
// Self-notifications are suppressed for every trigger.
func ForRecipient(t models.NotificationType, recipientID, actorID int, postID, commentID *int, message string) []Event {
	if recipientID == actorID {
		return nil
	}
	return []Event{{
		Type:       t,
		UserID:     recipientID,
		FromUserID: actorID,
		PostID:     postID,
		CommentID:  commentID,
		Message:    message,
	}}
}

func CommentMessage(actor *models.User, postTitle string) string {
	return fmt.Sprintf("%s commented on your post \"%s\"", actor.Username, postTitle)
}

func ReplyMessage(actor *models.User) string {
	return fmt.Sprintf("%s replied to your comment", actor.Username)
}

func LikeMessage(actor *models.User, postTitle string) string {
	return fmt.Sprintf("%s liked your post \"%s\"", actor.Username, postTitle)
}

func CommentLikedMessage(actor *models.User) string {
	return fmt.Sprintf("%s liked your comment", actor.Username)
}

func FollowMessage(actor *models.User) string {
	return fmt.Sprintf("%s started following you", actor.Username)
}

func ShareMessage(actor *models.User, postTitle string) string {
	return fmt.Sprintf("%s shared your post \"%s\"", actor.Username, postTitle)
}

func NewArticleMessage(author *models.User, postTitle string) string {
	return fmt.Sprintf("%s published a new article: \"%s\"", author.Username, postTitle)
}
