package notifications

import (
	"context"
	"testing"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubNotificationStore struct {
	list []*models.Notification
}

func (s *stubNotificationStore) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	s.list = append(s.list, n)
	return n, nil
}

func (s *stubNotificationStore) List(_ context.Context, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(s.list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *s.list[i])
	}
	return out, nil
}

func (s *stubNotificationStore) MarkRead(_ context.Context, id uuid.UUID) (int64, error) {
	for _, n := range s.list {
		if n.ID == id {
			n.Read = true
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubNotificationStore) MarkAllRead(_ context.Context) error {
	for _, n := range s.list {
		n.Read = true
	}
	return nil
}

func (s *stubNotificationStore) CountUnread(_ context.Context) (int64, error) {
	var n int64
	for _, item := range s.list {
		if !item.Read {
			n++
		}
	}
	return n, nil
}

func newNotificationTestService(t *testing.T, store *stubNotificationStore) Service {
	t.Helper()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestOrderPlacedAndList(t *testing.T) {
	t.Parallel()

	store := &stubNotificationStore{}
	svc := newNotificationTestService(t, store)
	ctx := context.Background()

	orderID := uuid.New()
	if err := svc.OrderPlaced(ctx, orderID, "DB-ABCD1234", "Lina"); err != nil {
		t.Fatalf("order placed: %v", err)
	}

	result, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(result.Notifications))
	}
	n := result.Notifications[0]
	if n.Type != "order" || n.OrderID == nil || *n.OrderID != orderID {
		t.Fatalf("unexpected notification %+v", n)
	}
	if result.UnreadCount != 1 {
		t.Fatalf("expected unread 1, got %d", result.UnreadCount)
	}
}

func TestMarkReadFlow(t *testing.T) {
	t.Parallel()

	store := &stubNotificationStore{}
	svc := newNotificationTestService(t, store)
	ctx := context.Background()

	created, err := svc.Announce(ctx, enums.NotificationTypeSystem, "inventory sync complete")
	if err != nil {
		t.Fatalf("announce: %v", err)
	}

	if err := svc.MarkRead(ctx, created.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	result, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.UnreadCount != 0 {
		t.Fatalf("expected no unread, got %d", result.UnreadCount)
	}

	err = svc.MarkRead(ctx, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnnounceValidation(t *testing.T) {
	t.Parallel()

	svc := newNotificationTestService(t, &stubNotificationStore{})
	ctx := context.Background()

	_, err := svc.Announce(ctx, "gossip", "hi")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for type, got %v", err)
	}

	_, err = svc.Announce(ctx, enums.NotificationTypePromotion, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for message, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()

	store := &stubNotificationStore{}
	svc := newNotificationTestService(t, store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.OrderPlaced(ctx, uuid.New(), "DB-TRACK", "Lina"); err != nil {
			t.Fatalf("order placed: %v", err)
		}
	}

	if err := svc.MarkAllRead(ctx); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	result, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.UnreadCount != 0 {
		t.Fatalf("expected all read, got %d unread", result.UnreadCount)
	}
}
