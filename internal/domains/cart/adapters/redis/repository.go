// Package redis stores cart documents as JSON values keyed per user. A sorted
// set indexes carts by last-touch time so stale baskets can be purged.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickmeds/pharmacy-api/internal/domains/cart/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

const touchIndexKey = "carts:touched"

// Repository persists carts in Redis.
type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Connect dials Redis and verifies connectivity.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

type cartDocument struct {
	UserID    string        `json:"userId"`
	Items     []domain.Item `json:"items"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func cartKey(userID string) string { return "cart:" + userID }

func (r *Repository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	raw, err := r.client.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc cartDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode cart document for user %s: %w", userID, err)
	}
	return &domain.Cart{UserID: doc.UserID, Items: doc.Items, UpdatedAt: doc.UpdatedAt}, nil
}

func (r *Repository) Save(ctx context.Context, cart *domain.Cart) error {
	doc := cartDocument{UserID: cart.UserID, Items: cart.Items, UpdatedAt: cart.UpdatedAt}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, cartKey(cart.UserID), raw, 0)
	pipe.ZAdd(ctx, touchIndexKey, redis.Z{Score: float64(cart.UpdatedAt.Unix()), Member: cart.UserID})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repository) Delete(ctx context.Context, userID string) error {
	removed, err := r.client.Del(ctx, cartKey(userID)).Result()
	if err != nil {
		return err
	}
	r.client.ZRem(ctx, touchIndexKey, userID)
	if removed == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) PurgeStale(ctx context.Context, olderThan time.Time) (int, error) {
	max := fmt.Sprintf("%d", olderThan.Unix())
	stale, err := r.client.ZRangeByScore(ctx, touchIndexKey, &redis.ZRangeBy{Min: "-inf", Max: max}).Result()
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, userID := range stale {
		if err := r.Delete(ctx, userID); err != nil && !errors.Is(err, ports.ErrNotFound) {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
