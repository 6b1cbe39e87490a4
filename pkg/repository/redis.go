package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/fulfillment/pkg/config"
	"github.com/example/fulfillment/pkg/models"
	"github.com/go-redis/redis/v8"
)

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func orderKey(id string) string {
	return fmt.Sprintf("order:%s", id)
}

// CacheOrder keeps the full document in Redis so reads can skip Mongo. Every
// order mutation drops the key.
func (r *RedisRepository) CacheOrder(ctx context.Context, order *models.Order) error {
	return r.SetJSON(ctx, orderKey(order.ID.Hex()), order, 30*time.Minute)
}

func (r *RedisRepository) GetOrderCache(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.GetJSON(ctx, orderKey(orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *RedisRepository) DropOrderCache(ctx context.Context, orderID string) error {
	return r.Del(ctx, orderKey(orderID))
}
