package service

import (
	"context"
	"fmt"
	"time"

	"github.com/example/fulfillment/pkg/models"
	"go.uber.org/zap"
)

// NotificationStore is the slice of the document store the sink writes to.
type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	FindByVendor(ctx context.Context, vendorID string) ([]models.Notification, error)
	SetRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Dispatcher hands a message to the external delivery channel (email, SMS,
// push). Delivery is best effort and at most once.
type Dispatcher interface {
	Dispatch(recipientID, message string)
}

type NotificationService struct {
	store      NotificationStore
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewNotificationService(store NotificationStore, dispatcher Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	n.IsRead = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := s.store.Insert(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// Send dispatches a message to the recipient's external channel. The caller
// never observes a delivery failure.
func (s *NotificationService) Send(recipientID, message string) {
	s.dispatcher.Dispatch(recipientID, message)
}

func (s *NotificationService) ListByVendor(ctx context.Context, vendorID string) ([]models.Notification, error) {
	return s.store.FindByVendor(ctx, vendorID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find notification: %w", err)
	}
	if n == nil {
		return &NotFoundError{Entity: "notification", ID: id}
	}
	return s.store.SetRead(ctx, id)
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	n, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find notification: %w", err)
	}
	if n == nil {
		return &NotFoundError{Entity: "notification", ID: id}
	}
	return s.store.Delete(ctx, id)
}
