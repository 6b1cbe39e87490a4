package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Inventory struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID              string             `bson:"productId" json:"product_id"`
	VendorID               string             `bson:"vendorId" json:"vendor_id"`
	StockQuantity          int                `bson:"stockQuantity" json:"stock_quantity"`
	IsLowStockAlertEnabled bool               `bson:"isLowStockAlertEnabled" json:"is_low_stock_alert_enabled"`
	LowStockThreshold      int                `bson:"lowStockThreshold" json:"low_stock_threshold"`
	LastUpdated            time.Time          `bson:"lastUpdated" json:"last_updated"`
}

// BelowThreshold reports whether the current stock level is under the
// low-stock threshold.
func (i *Inventory) BelowThreshold() bool {
	return i.StockQuantity < i.LowStockThreshold
}
