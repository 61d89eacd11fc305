package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkstream/blog-backend/internal/core/notifications"
)

type NotificationHandler struct {
	notifications *notifications.Service
}

func NewNotificationHandler(service *notifications.Service) *NotificationHandler {
	return &NotificationHandler{notifications: service}
}

// GetNotifications returns the user's notifications with the unread count
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.notifications.List(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkRead marks one of the user's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(notificationID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead marks all of the user's notifications as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": updated})
}

// DeleteNotification deletes one of the user's notifications
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.notifications.Delete(notificationID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}
