package service

import (
	"context"
	"fmt"
	"time"

	"github.com/example/fulfillment/pkg/metrics"
	"github.com/example/fulfillment/pkg/models"
	"github.com/example/fulfillment/pkg/repository"
	"go.uber.org/zap"
)

// InventoryStore is the slice of the document store holding stock records.
type InventoryStore interface {
	Insert(ctx context.Context, inv *models.Inventory) error
	FindByID(ctx context.Context, id string) (*models.Inventory, error)
	FindAll(ctx context.Context) ([]models.Inventory, error)
	FindLowStock(ctx context.Context) ([]models.Inventory, error)
	Replace(ctx context.Context, id string, inv *models.Inventory) error
	SetStock(ctx context.Context, id string, quantity int, at time.Time) error
	SetAlertEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// PendingOrderChecker is the cross-collection consistency check consulted
// before an inventory record may be deleted.
type PendingOrderChecker interface {
	HasPendingOrders(ctx context.Context, productID string) (bool, error)
}

type InventoryService struct {
	inventory     InventoryStore
	orders        PendingOrderChecker
	notifications *NotificationService
	audit         *repository.AuditStore
	metrics       *metrics.DomainMetrics
	logger        *zap.Logger
}

// NewInventoryService wires the stock store. audit and domain metrics may be
// nil.
func NewInventoryService(inventory InventoryStore, orders PendingOrderChecker, notifications *NotificationService, audit *repository.AuditStore, m *metrics.DomainMetrics, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		inventory:     inventory,
		orders:        orders,
		notifications: notifications,
		audit:         audit,
		metrics:       m,
		logger:        logger,
	}
}

func (s *InventoryService) Create(ctx context.Context, inv *models.Inventory) error {
	if inv.LastUpdated.IsZero() {
		inv.LastUpdated = time.Now().UTC()
	}

	if err := s.inventory.Insert(ctx, inv); err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}

	s.recordAudit("create_inventory", inv.ID.Hex(), fmt.Sprintf("product=%s stock=%d", inv.ProductID, inv.StockQuantity))
	s.evaluateAlert(ctx, inv)
	return nil
}

func (s *InventoryService) Update(ctx context.Context, id string, inv *models.Inventory) error {
	existing, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find inventory: %w", err)
	}
	if existing == nil {
		return &NotFoundError{Entity: "inventory", ID: id}
	}

	// The path identifier is authoritative over whatever the body carries.
	inv.ID = existing.ID

	if err := s.inventory.Replace(ctx, id, inv); err != nil {
		return fmt.Errorf("replace inventory: %w", err)
	}

	s.recordAudit("update_inventory", id, fmt.Sprintf("product=%s stock=%d", inv.ProductID, inv.StockQuantity))
	s.evaluateAlert(ctx, inv)
	return nil
}

// UpdateStock writes the new quantity as a targeted field update, then
// re-fetches the record so the alert is evaluated against what was persisted.
func (s *InventoryService) UpdateStock(ctx context.Context, id string, quantity int) error {
	existing, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find inventory: %w", err)
	}
	if existing == nil {
		return &NotFoundError{Entity: "inventory", ID: id}
	}

	if err := s.inventory.SetStock(ctx, id, quantity, time.Now().UTC()); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}

	updated, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("refetch inventory: %w", err)
	}
	if updated != nil {
		s.evaluateAlert(ctx, updated)
	}
	return nil
}

// UpdateLowStockAlert flips the alert flag. Flipping it does not itself
// re-evaluate the alert.
func (s *InventoryService) UpdateLowStockAlert(ctx context.Context, id string, enabled bool) error {
	existing, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find inventory: %w", err)
	}
	if existing == nil {
		return &NotFoundError{Entity: "inventory", ID: id}
	}

	if err := s.inventory.SetAlertEnabled(ctx, id, enabled); err != nil {
		return fmt.Errorf("set alert flag: %w", err)
	}

	s.recordAudit("update_inventory_alert", id, fmt.Sprintf("enabled=%t", enabled))
	return nil
}

// Remove deletes an inventory record unless a Processing order still
// references its product. The check and the delete are two separate store
// operations; a racing order creation can slip between them.
func (s *InventoryService) Remove(ctx context.Context, id string) error {
	inv, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find inventory: %w", err)
	}
	if inv == nil {
		return &NotFoundError{Entity: "inventory", ID: id}
	}

	pending, err := s.orders.HasPendingOrders(ctx, inv.ProductID)
	if err != nil {
		return fmt.Errorf("check pending orders: %w", err)
	}
	if pending {
		if s.metrics != nil {
			s.metrics.RemovalsBlocked.Inc()
		}
		return &StateConflictError{Reason: "Cannot remove inventory with pending orders"}
	}

	if err := s.inventory.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}

	s.recordAudit("remove_inventory", id, fmt.Sprintf("product=%s", inv.ProductID))
	return nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (*models.Inventory, error) {
	inv, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}
	if inv == nil {
		return nil, &NotFoundError{Entity: "inventory", ID: id}
	}
	return inv, nil
}

func (s *InventoryService) GetAll(ctx context.Context) ([]models.Inventory, error) {
	return s.inventory.FindAll(ctx)
}

func (s *InventoryService) GetLowStock(ctx context.Context) ([]models.Inventory, error) {
	return s.inventory.FindLowStock(ctx)
}

// evaluateAlert persists a low-stock notification for the vendor when stock
// sits under the threshold with alerting enabled. There is no de-duplication:
// every qualifying write produces a fresh notification.
func (s *InventoryService) evaluateAlert(ctx context.Context, inv *models.Inventory) {
	if !inv.IsLowStockAlertEnabled || !inv.BelowThreshold() {
		return
	}

	message := fmt.Sprintf("Stock is low for product %s. Only %d items left.", inv.ProductID, inv.StockQuantity)
	n := &models.Notification{VendorID: inv.VendorID, Message: message}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("failed to persist low stock alert",
			zap.String("product_id", inv.ProductID),
			zap.Error(err))
		return
	}

	if s.metrics != nil {
		s.metrics.LowStockAlerts.Inc()
	}
	s.logger.Info("low stock alert",
		zap.String("product_id", inv.ProductID),
		zap.String("vendor_id", inv.VendorID),
		zap.Int("stock_quantity", inv.StockQuantity),
		zap.Int("threshold", inv.LowStockThreshold))
}

func (s *InventoryService) recordAudit(action, entityID, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(action, entityID, detail)
}
