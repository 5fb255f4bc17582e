package service

import (
	"context"
	"errors"

	"animedrop/internal/logging"
	"animedrop/internal/metrics"
	"animedrop/internal/microservices/http-api/models"
	"animedrop/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// Publisher pushes a stored notification to the recipient's live connections.
type Publisher interface {
	Publish(n *models.Notification)
}

// NotifyInput describes one notification to create.
type NotifyInput struct {
	RecipientID string
	SenderID    string // empty for system notifications
	Type        models.NotificationType
	Message     string
	Link        string
}

// Notifier is the side-effect half of NotificationService, used by the anime
// and user services.
type Notifier interface {
	Notify(ctx context.Context, in NotifyInput) (*models.Notification, error)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, recipientID string) ([]models.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id, recipientID string) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
}

// NewNotificationService wires the repository and an optional live publisher.
func NewNotificationService(repo repository.NotificationRepository, publisher Publisher) NotificationService {
	return &notificationService{repo: repo, publisher: publisher}
}

func (s *notificationService) Notify(ctx context.Context, in NotifyInput) (*models.Notification, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidNotification
	}
	if in.RecipientID == "" || in.Message == "" {
		return nil, Validationf("Notification recipient and message are required")
	}

	n := &models.Notification{
		RecipientID: in.RecipientID,
		Type:        in.Type,
		Message:     in.Message,
		Link:        in.Link,
	}
	if in.SenderID != "" {
		sender := in.SenderID
		n.SenderID = &sender
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()

	if s.publisher != nil {
		// reload so the pushed payload carries the sender summary
		if full, err := s.repo.FindByID(ctx, n.ID); err == nil {
			n = full
		}
		s.publisher.Publish(n)
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, repository.NotificationListLimit)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// owned loads a notification and checks that recipientID may act on it.
func (s *notificationService) owned(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if n.RecipientID != recipientID {
		return nil, ErrNotRecipient
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	n, err := s.owned(ctx, id, recipientID)
	if err != nil {
		return nil, err
	}
	if !n.Read {
		if err := s.repo.MarkAsRead(ctx, id); err != nil {
			return nil, err
		}
		n.Read = true
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

func (s *notificationService) Delete(ctx context.Context, id, recipientID string) error {
	if _, err := s.owned(ctx, id, recipientID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// notifyBestEffort runs a notification side effect. Failures are logged and
// never reach the caller.
func notifyBestEffort(ctx context.Context, n Notifier, in NotifyInput) {
	if n == nil {
		return
	}
	if _, err := n.Notify(ctx, in); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("recipient_id", in.RecipientID).
			Str("type", string(in.Type)).
			Msg("failed to create notification")
	}
}
