package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/fulfillment/pkg/models"
	"go.uber.org/zap"
)

func newSinkFixture() (*NotificationService, *memNotificationStore, *recorderDispatcher) {
	store := newMemNotificationStore()
	dispatcher := &recorderDispatcher{}
	return NewNotificationService(store, dispatcher, zap.NewNop()), store, dispatcher
}

func TestCreateSetsDefaults(t *testing.T) {
	sink, store, _ := newSinkFixture()

	n := &models.Notification{VendorID: "v1", Message: "hello", IsRead: true}
	if err := sink.Create(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := store.notifications[n.ID.Hex()]
	if stored.IsRead {
		t.Fatalf("new notification must start unread")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatalf("createdAt not defaulted")
	}
}

func TestCreateKeepsExplicitTimestamp(t *testing.T) {
	sink, store, _ := newSinkFixture()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := &models.Notification{VendorID: "v1", Message: "hello", CreatedAt: at}
	if err := sink.Create(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.notifications[n.ID.Hex()].CreatedAt.Equal(at) {
		t.Fatalf("explicit createdAt overwritten")
	}
}

func TestSendReachesDispatcher(t *testing.T) {
	sink, store, dispatcher := newSinkFixture()

	sink.Send("v1", "your shipment is on its way")

	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected 1 dispatched message, got %d", len(dispatcher.sent))
	}
	if dispatcher.sent[0].RecipientID != "v1" {
		t.Fatalf("recipient = %q", dispatcher.sent[0].RecipientID)
	}
	// Dispatch is a side channel only: nothing is persisted.
	if len(store.notifications) != 0 {
		t.Fatalf("Send must not write to the store")
	}
}

func TestMarkReadAndDelete(t *testing.T) {
	sink, store, _ := newSinkFixture()

	n := &models.Notification{VendorID: "v1", Message: "hello"}
	if err := sink.Create(context.Background(), n); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := n.ID.Hex()

	if err := sink.MarkRead(context.Background(), id); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !store.notifications[id].IsRead {
		t.Fatalf("notification not marked read")
	}

	if err := sink.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.notifications) != 0 {
		t.Fatalf("notification not deleted")
	}
}

func TestMarkReadNotFound(t *testing.T) {
	sink, _, _ := newSinkFixture()

	err := sink.MarkRead(context.Background(), "ffffffffffffffffffffffff")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	err = sink.Delete(context.Background(), "ffffffffffffffffffffffff")
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestListByVendorFilters(t *testing.T) {
	sink, _, _ := newSinkFixture()

	for _, vendor := range []string{"v1", "v2", "v1"} {
		n := &models.Notification{VendorID: vendor, Message: "m"}
		if err := sink.Create(context.Background(), n); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	notifications, err := sink.ListByVendor(context.Background(), "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications for v1, got %d", len(notifications))
	}
}
