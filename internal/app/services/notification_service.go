package services

import (
	"context"
	"fmt"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/email"
	"github.com/yigit/uniportal/internal/pkg/logger"
)

// DefaultNotificationLimit caps the notifications returned by List
const DefaultNotificationLimit = 50

// NotificationService stores in-portal notifications and mirrors them by e-mail
type NotificationService interface {
	// Notify stores a notification for user and e-mails it. E-mail failures are only logged.
	Notify(ctx context.Context, user *models.User, title, body string) error
	List(ctx context.Context, userID int64) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID int64) error
	Broadcast(ctx context.Context, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error)
}

type notificationServiceImpl struct {
	notifications repositories.INotificationRepository
	users         repositories.IUserRepository
	mailer        email.EmailService
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notifications repositories.INotificationRepository,
	users repositories.IUserRepository,
	mailer email.EmailService,
) NotificationService {
	return &notificationServiceImpl{
		notifications: notifications,
		users:         users,
		mailer:        mailer,
	}
}

func (s *notificationServiceImpl) Notify(ctx context.Context, user *models.User, title, body string) error {
	n := &models.Notification{
		UserID: user.ID,
		Title:  title,
		Body:   body,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}

	if s.mailer != nil && user.Email != "" {
		msg := email.Message{
			ToName:  user.FullName(),
			ToEmail: user.Email,
			Subject: title,
			Text:    body,
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			logger.Warn().Err(err).Int64("userID", user.ID).Int64("notificationID", n.ID).Msg("Failed to e-mail notification")
		}
	}
	return nil
}

func (s *notificationServiceImpl) List(ctx context.Context, userID int64) ([]dto.NotificationResponse, error) {
	items, err := s.notifications.ListByUser(ctx, userID, DefaultNotificationLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, dto.NewNotificationResponse(n))
	}
	return resp, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

func (s *notificationServiceImpl) Broadcast(ctx context.Context, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error) {
	var role *models.RoleType
	if req.Role != "" {
		r := models.RoleType(req.Role)
		role = &r
	}

	recipients, err := s.users.ListActive(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("error listing recipients: %w", err)
	}

	sent := 0
	for _, u := range recipients {
		if err := s.Notify(ctx, u, req.Title, req.Body); err != nil {
			logger.Error().Err(err).Int64("userID", u.ID).Msg("Broadcast notification failed")
			continue
		}
		sent++
	}

	logger.Info().Str("role", req.Role).Int("recipients", sent).Msg("Broadcast sent")
	return &dto.BroadcastResponse{Recipients: sent}, nil
}
