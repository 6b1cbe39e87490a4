package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	// Shipped and PartiallyDelivered appear in stored documents but no
	// operation currently moves an order into them.
	OrderStatusShipped            OrderStatus = "Shipped"
	OrderStatusPartiallyDelivered OrderStatus = "PartiallyDelivered"
	OrderStatusDelivered          OrderStatus = "Delivered"
	OrderStatusCancelled          OrderStatus = "Cancelled"
)

// Terminal reports whether no further transition leaves this status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID       string             `bson:"customerId" json:"customer_id"`
	OrderItems       []OrderItem        `bson:"orderItems" json:"order_items"`
	TotalPrice       decimal.Decimal    `bson:"totalPrice" json:"total_price"`
	Status           OrderStatus        `bson:"status" json:"status"`
	CancellationNote string             `bson:"cancellationNote,omitempty" json:"cancellation_note,omitempty"`
	CancellationDate *time.Time         `bson:"CancellationDate,omitempty" json:"cancellation_date,omitempty"`
	OrderDate        *time.Time         `bson:"orderDate,omitempty" json:"order_date,omitempty"`
	DeliveryDate     *time.Time         `bson:"deliveryDate,omitempty" json:"delivery_date,omitempty"`
	IsCancelled      bool               `bson:"cancelled" json:"is_cancelled"`
}

// Mutable reports whether the order still accepts writes. Shipped blocks
// mutation as well, even though nothing currently moves an order there.
func (o *Order) Mutable() bool {
	switch o.Status {
	case OrderStatusShipped, OrderStatusCancelled, OrderStatusDelivered:
		return false
	}
	return !o.IsCancelled
}

type OrderItem struct {
	ProductID     string          `bson:"productId" json:"product_id"`
	ProductName   string          `bson:"productName" json:"product_name"`
	VendorID      string          `bson:"vendorId" json:"vendor_id"`
	Quantity      int             `bson:"quantity" json:"quantity"`
	Price         decimal.Decimal `bson:"price" json:"price"`
	IsDelivered   bool            `bson:"IsDelivered" json:"is_delivered"`
	DeliveredDate *time.Time      `bson:"DeliveredDate,omitempty" json:"delivered_date,omitempty"`
}
