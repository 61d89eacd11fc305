package notifications

import (
	"log"

	"gorm.io/gorm"

	"github.com/inkstream/blog-backend/internal/models"
)

// Service writes and serves notifications. Dispatch is best-effort: a failed
// notification write must never fail the operation that triggered it.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Dispatch persists the given events. Failures are logged and swallowed.
func (s *Service) Dispatch(events []Event) {
	for _, e := range events {
		fromID := e.FromUserID
		n := models.Notification{
			UserID:     e.UserID,
			FromUserID: &fromID,
			PostID:     e.PostID,
			CommentID:  e.CommentID,
			Type:       e.Type,
			Message:    e.Message,
		}
		if err := s.db.Create(&n).Error; err != nil {
			log.Printf("Failed to write %s notification for user %d: %v", e.Type, e.UserID, err)
		}
	}
}

// FanOutNewArticle notifies every non-admin user except the author that a
// post was published. Zero eligible recipients is not an error.
func (s *Service) FanOutNewArticle(post *models.Post, author *models.User) {
	var recipients []models.User
	if err := s.db.Where("role <> ? AND id <> ?", models.RoleAdmin, author.ID).Find(&recipients).Error; err != nil {
		log.Printf("Failed to load new_article recipients for post %d: %v", post.ID, err)
		return
	}

	events := make([]Event, 0, len(recipients))
	for _, r := range recipients {
		events = append(events, Event{
			Type:       models.NotificationTypeNewArticle,
			UserID:     r.ID,
			FromUserID: author.ID,
			PostID:     &post.ID,
			Message:    NewArticleMessage(author, post.Title),
		})
	}
	s.Dispatch(events)
}

// Page is one page of a user's notifications plus the derived counters the
// client needs to render a badge.
type Page struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	UnreadCount   int64                 `json:"unread_count"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

// List returns the user's notifications, newest first.
func (s *Service) List(userID, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total, unread int64
	if err := s.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread).Error; err != nil {
		return nil, err
	}

	var items []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Preload("FromUser").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []models.Notification{}
	}

	return &Page{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(notificationID, userID int) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many were updated.
func (s *Service) MarkAllRead(userID int) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// Delete removes one of the user's notifications.
func (s *Service) Delete(notificationID, userID int) error {
	res := s.db.Where("id = ? AND user_id = ?", notificationID, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
