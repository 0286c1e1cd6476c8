package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/pagination"
	"github.com/google/uuid"
)

// NotificationDTO is the API shape of a back-office notification.
type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}

// ListResult is the notification feed plus the unread badge count.
type ListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
}

// Service exposes the back-office notification feed.
type Service interface {
	OrderPlaced(ctx context.Context, orderID uuid.UUID, trackingNumber, customerName string) error
	Announce(ctx context.Context, kind enums.NotificationType, message string) (*NotificationDTO, error)
	List(ctx context.Context, limit int) (*ListResult, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	List(ctx context.Context, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context) error
	CountUnread(ctx context.Context) (int64, error)
}

type service struct {
	repo notificationStore
}

// NewService constructs a notification service instance.
func NewService(repo notificationStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	return &service{repo: repo}, nil
}

// OrderPlaced records an order notification for the back office.
func (s *service) OrderPlaced(ctx context.Context, orderID uuid.UUID, trackingNumber, customerName string) error {
	n := &models.Notification{
		Type:    enums.NotificationTypeOrder,
		Message: fmt.Sprintf("New order %s from %s", trackingNumber, customerName),
		OrderID: &orderID,
	}
	if _, err := s.repo.Create(ctx, n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert notification")
	}
	return nil
}

// Announce records a free-form notification of the given kind.
func (s *service) Announce(ctx context.Context, kind enums.NotificationType, message string) (*NotificationDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	created, err := s.repo.Create(ctx, &models.Notification{Type: kind, Message: message})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert notification")
	}
	return newDTO(created), nil
}

// List returns the feed newest first with the unread count.
func (s *service) List(ctx context.Context, limit int) (*ListResult, error) {
	list, err := s.repo.List(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list notifications")
	}
	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count unread notifications")
	}

	result := &ListResult{
		Notifications: make([]NotificationDTO, 0, len(list)),
		UnreadCount:   unread,
	}
	for i := range list {
		result.Notifications = append(result.Notifications, *newDTO(&list[i]))
	}
	return result, nil
}

// MarkRead flags one notification as read.
func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead clears the unread badge.
func (s *service) MarkAllRead(ctx context.Context) error {
	if err := s.repo.MarkAllRead(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark notifications read")
	}
	return nil
}

func newDTO(n *models.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID,
		Type:      n.Type.String(),
		Message:   n.Message,
		OrderID:   n.OrderID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
