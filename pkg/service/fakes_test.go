package service

import (
	"context"
	"errors"
	"time"

	"github.com/example/fulfillment/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the document store, mirroring its observable
// behavior: lookups of unknown identifiers return nil, targeted writes touch
// only the named fields, reads hand out copies.

type memOrderStore struct {
	orders map[string]*models.Order
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[string]*models.Order)}
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	return &cp
}

func (m *memOrderStore) Insert(_ context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	m.orders[order.ID.Hex()] = cloneOrder(order)
	return nil
}

func (m *memOrderStore) FindByID(_ context.Context, id string) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(order), nil
}

func (m *memOrderStore) FindAll(_ context.Context) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range m.orders {
		orders = append(orders, *cloneOrder(o))
	}
	return orders, nil
}

func (m *memOrderStore) FindByCustomer(_ context.Context, customerID string) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			orders = append(orders, *cloneOrder(o))
		}
	}
	return orders, nil
}

func (m *memOrderStore) Replace(_ context.Context, id string, order *models.Order) error {
	if _, ok := m.orders[id]; ok {
		m.orders[id] = cloneOrder(order)
	}
	return nil
}

func (m *memOrderStore) SetCancelled(_ context.Context, id, note string, at time.Time) error {
	order, ok := m.orders[id]
	if !ok {
		return nil
	}
	order.IsCancelled = true
	order.Status = models.OrderStatusCancelled
	order.CancellationNote = note
	order.CancellationDate = &at
	return nil
}

func (m *memOrderStore) Delete(_ context.Context, id string) error {
	delete(m.orders, id)
	return nil
}

func (m *memOrderStore) CountPending(_ context.Context, productID string) (int64, error) {
	var count int64
	for _, o := range m.orders {
		if o.Status != models.OrderStatusProcessing {
			continue
		}
		for _, item := range o.OrderItems {
			if item.ProductID == productID {
				count++
				break
			}
		}
	}
	return count, nil
}

type memInventoryStore struct {
	records map[string]*models.Inventory
}

func newMemInventoryStore() *memInventoryStore {
	return &memInventoryStore{records: make(map[string]*models.Inventory)}
}

func (m *memInventoryStore) Insert(_ context.Context, inv *models.Inventory) error {
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	cp := *inv
	m.records[inv.ID.Hex()] = &cp
	return nil
}

func (m *memInventoryStore) FindByID(_ context.Context, id string) (*models.Inventory, error) {
	inv, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *memInventoryStore) FindAll(_ context.Context) ([]models.Inventory, error) {
	var records []models.Inventory
	for _, inv := range m.records {
		records = append(records, *inv)
	}
	return records, nil
}

func (m *memInventoryStore) FindLowStock(_ context.Context) ([]models.Inventory, error) {
	var records []models.Inventory
	for _, inv := range m.records {
		if inv.IsLowStockAlertEnabled && inv.BelowThreshold() {
			records = append(records, *inv)
		}
	}
	return records, nil
}

func (m *memInventoryStore) Replace(_ context.Context, id string, inv *models.Inventory) error {
	if _, ok := m.records[id]; ok {
		cp := *inv
		m.records[id] = &cp
	}
	return nil
}

func (m *memInventoryStore) SetStock(_ context.Context, id string, quantity int, at time.Time) error {
	if inv, ok := m.records[id]; ok {
		inv.StockQuantity = quantity
		inv.LastUpdated = at
	}
	return nil
}

func (m *memInventoryStore) SetAlertEnabled(_ context.Context, id string, enabled bool) error {
	if inv, ok := m.records[id]; ok {
		inv.IsLowStockAlertEnabled = enabled
	}
	return nil
}

func (m *memInventoryStore) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

type memNotificationStore struct {
	notifications map[string]*models.Notification
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{notifications: make(map[string]*models.Notification)}
}

func (m *memNotificationStore) Insert(_ context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	cp := *n
	m.notifications[n.ID.Hex()] = &cp
	return nil
}

func (m *memNotificationStore) FindByID(_ context.Context, id string) (*models.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (m *memNotificationStore) FindByVendor(_ context.Context, vendorID string) ([]models.Notification, error) {
	var notifications []models.Notification
	for _, n := range m.notifications {
		if n.VendorID == vendorID {
			notifications = append(notifications, *n)
		}
	}
	return notifications, nil
}

func (m *memNotificationStore) SetRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (m *memNotificationStore) Delete(_ context.Context, id string) error {
	delete(m.notifications, id)
	return nil
}

func (m *memNotificationStore) all() []models.Notification {
	var notifications []models.Notification
	for _, n := range m.notifications {
		notifications = append(notifications, *n)
	}
	return notifications
}

type memOrderCache struct {
	entries map[string]*models.Order
}

func newMemOrderCache() *memOrderCache {
	return &memOrderCache{entries: make(map[string]*models.Order)}
}

func (m *memOrderCache) CacheOrder(_ context.Context, order *models.Order) error {
	m.entries[order.ID.Hex()] = cloneOrder(order)
	return nil
}

func (m *memOrderCache) GetOrderCache(_ context.Context, id string) (*models.Order, error) {
	order, ok := m.entries[id]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return cloneOrder(order), nil
}

func (m *memOrderCache) DropOrderCache(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

type dispatchedMessage struct {
	RecipientID string
	Message     string
}

type recorderDispatcher struct {
	sent []dispatchedMessage
}

func (r *recorderDispatcher) Dispatch(recipientID, message string) {
	r.sent = append(r.sent, dispatchedMessage{RecipientID: recipientID, Message: message})
}
