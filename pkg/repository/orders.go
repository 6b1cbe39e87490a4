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

// OrderRepository persists orders in the document store. Lookups by an
// identifier that is not valid ObjectID hex behave like a missing document.
type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(m *MongoRepository) *OrderRepository {
	return &OrderRepository{collection: m.collection(ordersCollection)}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var order models.Order
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"customerId": customerID})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) Replace(ctx context.Context, id string, order *models.Order) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, order)
	return err
}

// SetCancelled flips the cancellation fields with a targeted write, leaving
// the rest of the document untouched.
func (r *OrderRepository) SetCancelled(ctx context.Context, id, note string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"cancelled":        true,
		"status":           models.OrderStatusCancelled,
		"cancellationNote": note,
		"CancellationDate": at,
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// CountPending counts orders still in Processing that contain an item for the
// given product.
func (r *OrderRepository) CountPending(ctx context.Context, productID string) (int64, error) {
	filter := bson.M{
		"status":               models.OrderStatusProcessing,
		"orderItems.productId": productID,
	}
	return r.collection.CountDocuments(ctx, filter)
}
