package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/fulfillment/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type InventoryRepository struct {
	collection *mongo.Collection
}

func NewInventoryRepository(m *MongoRepository) *InventoryRepository {
	return &InventoryRepository{collection: m.collection(inventoryCollection)}
}

func (r *InventoryRepository) Insert(ctx context.Context, inv *models.Inventory) error {
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, inv)
	return err
}

func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*models.Inventory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var inv models.Inventory
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepository) FindAll(ctx context.Context) ([]models.Inventory, error) {
	return r.find(ctx, bson.M{})
}

// FindLowStock returns records under their threshold with alerting enabled.
func (r *InventoryRepository) FindLowStock(ctx context.Context) ([]models.Inventory, error) {
	filter := bson.M{
		"isLowStockAlertEnabled": true,
		"$expr":                  bson.M{"$lt": bson.A{"$stockQuantity", "$lowStockThreshold"}},
	}
	return r.find(ctx, filter)
}

func (r *InventoryRepository) find(ctx context.Context, filter bson.M) ([]models.Inventory, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.Inventory
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *InventoryRepository) Replace(ctx context.Context, id string, inv *models.Inventory) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, inv)
	return err
}

// SetStock writes the quantity and timestamp as a targeted update rather than
// a whole-document replace.
func (r *InventoryRepository) SetStock(ctx context.Context, id string, quantity int, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"stockQuantity": quantity,
		"lastUpdated":   at,
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *InventoryRepository) SetAlertEnabled(ctx context.Context, id string, enabled bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"isLowStockAlertEnabled": enabled}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
