package handlers

import (
	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/core/comments"
	"github.com/inkstream/blog-backend/internal/core/interactions"
	"github.com/inkstream/blog-backend/internal/core/notifications"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Post         *PostHandler
	Comment      *CommentHandler
	Interaction  *InteractionHandler
	User         *UserHandler
	Notification *NotificationHandler
	Category     *CategoryHandler
	Analytics    *AnalyticsHandler
}

// NewHandler creates a unified handler with all sub-handlers sharing one set
// of core services.
func NewHandler(db *gorm.DB) *Handler {
	notifier := notifications.NewService(db)
	commentService := comments.NewService(db)
	interactionService := interactions.NewService(db)

	return &Handler{
		Auth:         NewAuthHandler(db),
		Post:         NewPostHandler(db, interactionService, notifier),
		Comment:      NewCommentHandler(db, commentService, notifier),
		Interaction:  NewInteractionHandler(db, interactionService, notifier),
		User:         NewUserHandler(db, interactionService, notifier),
		Notification: NewNotificationHandler(notifier),
		Category:     NewCategoryHandler(db),
		Analytics:    NewAnalyticsHandler(db),
	}
}
