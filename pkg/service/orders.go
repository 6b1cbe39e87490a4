package service

import (
	"context"
	"fmt"
	"time"

	"github.com/example/fulfillment/pkg/metrics"
	"github.com/example/fulfillment/pkg/models"
	"github.com/example/fulfillment/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore is the slice of the document store the order ledger writes to.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	Replace(ctx context.Context, id string, order *models.Order) error
	SetCancelled(ctx context.Context, id, note string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountPending(ctx context.Context, productID string) (int64, error)
}

// DeliveryGate can veto MarkDelivered before the write. The stored design
// performs no role check here; installing a gate is how a deployment adds one.
type DeliveryGate func(ctx context.Context, order *models.Order, actorID string) error

// OrderCache is a read-through cache over order documents. A lookup error
// counts as a miss; the document store stays authoritative.
type OrderCache interface {
	CacheOrder(ctx context.Context, order *models.Order) error
	GetOrderCache(ctx context.Context, id string) (*models.Order, error)
	DropOrderCache(ctx context.Context, id string) error
}

type OrderService struct {
	orders        OrderStore
	notifications *NotificationService
	cache         OrderCache
	audit         *repository.AuditStore
	metrics       *metrics.DomainMetrics
	logger        *zap.Logger
	gate          DeliveryGate
}

// NewOrderService wires the ledger. cache, audit and domain metrics may be
// nil; all are side channels whose absence changes nothing about order
// semantics.
func NewOrderService(orders OrderStore, notifications *NotificationService, cache OrderCache, audit *repository.AuditStore, m *metrics.DomainMetrics, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:        orders,
		notifications: notifications,
		cache:         cache,
		audit:         audit,
		metrics:       m,
		logger:        logger,
	}
}

// SetDeliveryGate installs an authorization hook for MarkDelivered.
func (s *OrderService) SetDeliveryGate(gate DeliveryGate) {
	s.gate = gate
}

// Create inserts a new order in Processing with the total derived from its
// items.
func (s *OrderService) Create(ctx context.Context, order *models.Order) error {
	if len(order.OrderItems) == 0 {
		return &ValidationError{Reason: "order must contain at least one item"}
	}

	now := time.Now().UTC()
	order.TotalPrice = totalPrice(order.OrderItems)
	order.OrderDate = &now
	order.Status = models.OrderStatusProcessing
	order.IsCancelled = false

	if err := s.orders.Insert(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	s.cacheOrder(ctx, order)
	s.countOp("created")
	s.recordAudit("create_order", order.ID.Hex(), fmt.Sprintf("customer=%s total=%s", order.CustomerID, order.TotalPrice.String()))
	s.logger.Info("order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("customer_id", order.CustomerID),
		zap.String("total_price", order.TotalPrice.String()))
	return nil
}

// Update merges the provided fields into an order still in Processing. Blank
// patch fields (nil items, empty strings, nil dates) keep the stored value.
// The total is recomputed only when items were supplied.
//
// The fetch-guard-write sequence is not atomic; two racing updates can both
// pass the guard.
func (s *OrderService) Update(ctx context.Context, id string, patch *models.Order) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return &NotFoundError{Entity: "order", ID: id}
	}
	if !order.Mutable() {
		return &StateConflictError{Reason: "order cannot be updated: it is not in Processing status or is already cancelled"}
	}

	if patch.OrderItems != nil {
		order.OrderItems = patch.OrderItems
		order.TotalPrice = totalPrice(order.OrderItems)
	}
	if patch.OrderDate != nil {
		order.OrderDate = patch.OrderDate
	}
	if patch.DeliveryDate != nil {
		order.DeliveryDate = patch.DeliveryDate
	}
	if patch.CustomerID != "" {
		order.CustomerID = patch.CustomerID
	}
	if patch.Status != "" {
		order.Status = patch.Status
	}

	if err := s.orders.Replace(ctx, id, order); err != nil {
		return fmt.Errorf("replace order: %w", err)
	}

	s.dropCache(ctx, id)
	s.recordAudit("update_order", id, fmt.Sprintf("status=%s", order.Status))
	return nil
}

// Cancel moves a Processing order to Cancelled and tells the customer. Two
// racing cancels can both pass the guard; both set the same terminal fields,
// so the second is harmless apart from a duplicate notification.
func (s *OrderService) Cancel(ctx context.Context, id, note string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return &NotFoundError{Entity: "order", ID: id}
	}
	if !order.Mutable() {
		return &StateConflictError{Reason: "order cannot be cancelled: it is not in Processing status or is already cancelled"}
	}

	now := time.Now().UTC()
	if err := s.orders.SetCancelled(ctx, id, note, now); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}

	s.dropCache(ctx, id)
	s.countOp("cancelled")
	s.recordAudit("cancel_order", id, fmt.Sprintf("note=%s", note))
	s.logger.Info("order cancelled",
		zap.String("order_id", id),
		zap.String("note", note))

	s.notify(ctx, order.CustomerID, fmt.Sprintf("Your order %s has been cancelled. Note: %s", id, note))
	return nil
}

// MarkDelivered marks every item delivered with one shared timestamp and
// moves the order to Delivered. The actorID is not checked here; ownership
// and role decisions belong to the caller unless a DeliveryGate is installed.
func (s *OrderService) MarkDelivered(ctx context.Context, id, actorID string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return &NotFoundError{Entity: "order", ID: id}
	}

	if s.gate != nil {
		if err := s.gate(ctx, order, actorID); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	for i := range order.OrderItems {
		order.OrderItems[i].IsDelivered = true
		order.OrderItems[i].DeliveredDate = &now
	}
	order.Status = models.OrderStatusDelivered
	order.DeliveryDate = &now

	if err := s.orders.Replace(ctx, id, order); err != nil {
		return fmt.Errorf("replace order: %w", err)
	}

	s.dropCache(ctx, id)
	s.countOp("delivered")
	s.recordAudit("deliver_order", id, fmt.Sprintf("actor=%s", actorID))
	s.logger.Info("order delivered",
		zap.String("order_id", id),
		zap.Int("item_count", len(order.OrderItems)))

	s.notify(ctx, order.CustomerID, fmt.Sprintf("Your order %s has been fully delivered.", id))
	return nil
}

// HasPendingOrders reports whether any Processing order references the
// product. The inventory deletion guard is its only caller.
func (s *OrderService) HasPendingOrders(ctx context.Context, productID string) (bool, error) {
	count, err := s.orders.CountPending(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("count pending orders: %w", err)
	}
	return count > 0, nil
}

// Get serves an order from the cache when possible, falling back to the
// document store and repopulating the cache on a miss.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetOrderCache(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, &NotFoundError{Entity: "order", ID: id}
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *OrderService) GetByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return s.orders.FindByCustomer(ctx, customerID)
}

// Remove deletes an order unconditionally. Admin use; no state guard.
func (s *OrderService) Remove(ctx context.Context, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return &NotFoundError{Entity: "order", ID: id}
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.dropCache(ctx, id)
	s.recordAudit("remove_order", id, "")
	return nil
}

// notify persists the customer message through the sink and dispatches it.
// Both sides are side effects; a failure is logged, never returned.
func (s *OrderService) notify(ctx context.Context, recipientID, message string) {
	n := &models.Notification{VendorID: recipientID, Message: message}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("failed to persist order notification",
			zap.String("recipient_id", recipientID),
			zap.Error(err))
	}
	s.notifications.Send(recipientID, message)
}

func (s *OrderService) cacheOrder(ctx context.Context, order *models.Order) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheOrder(ctx, order); err != nil {
		s.logger.Warn("order cache write failed", zap.Error(err))
	}
}

func (s *OrderService) dropCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DropOrderCache(ctx, id); err != nil {
		s.logger.Warn("order cache invalidation failed", zap.Error(err))
	}
}

func (s *OrderService) countOp(op string) {
	if s.metrics == nil {
		return
	}
	s.metrics.OrderOperations.WithLabelValues(op).Inc()
}

func (s *OrderService) recordAudit(action, entityID, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(action, entityID, detail)
}

func totalPrice(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
