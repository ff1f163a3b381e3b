package dto

import (
	"time"

	"github.com/yigit/uniportal/internal/app/models"
)

// BroadcastRequest sends a notification to every active user, or every active user of a role
type BroadcastRequest struct {
	Role  string `json:"role" binding:"omitempty,oneof=student faculty admin"`
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,max=4000"`
}

// BroadcastResponse reports how many users were notified
type BroadcastResponse struct {
	Recipients int `json:"recipients"`
}

// NotificationResponse is the public view of a notification
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewNotificationResponse converts a notification
func NewNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
