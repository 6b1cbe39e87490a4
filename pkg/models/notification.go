package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is addressed through VendorID; for order-related messages the
// same field carries the customer identifier.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID  string             `bson:"vendorId" json:"vendor_id"`
	Message   string             `bson:"message" json:"message"`
	IsRead    bool               `bson:"isRead" json:"is_read"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}
