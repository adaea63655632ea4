package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/cart-state-service/internal/domain"
	"github.com/go-redis/redis/v8"
)

// RedisCartStore — CartRepository backed by Redis, one JSON array per
// delivery-area key.
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore accepts either a "redis://..." URL or a plain
// "hostname:port" address.
func NewRedisCartStore(redisAddr string) *RedisCartStore {
	opts, err := redis.ParseURL(redisAddr)
	if err != nil {
		opts = &redis.Options{
			Addr:         redisAddr,
			MinIdleConns: 1,
			DialTimeout:  30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
		}
	}
	return &RedisCartStore{client: redis.NewClient(opts)}
}

// Initialize pings the server, backing off exponentially between attempts.
func (r *RedisCartStore) Initialize(ctx context.Context) error {
	const attempts = 10
	for i := 0; i < attempts; i++ {
		if r.Ping(ctx) {
			return nil
		}
		backoff := time.Duration(500*(1<<uint(i))) * time.Millisecond
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
		log.Printf("redis ping failed (attempt %d/%d), retrying in %v", i+1, attempts, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis at %s not reachable after %d attempts", r.client.Options().Addr, attempts)
}

func (r *RedisCartStore) Ping(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisCartStore) Save(ctx context.Context, areaKey string, items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return r.client.Set(ctx, cartKey(areaKey), payload, 0).Err()
}

func (r *RedisCartStore) Load(ctx context.Context, areaKey string) ([]domain.CartLineItem, error) {
	payload, err := r.client.Get(ctx, cartKey(areaKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []domain.CartLineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

func (r *RedisCartStore) Close() error { return r.client.Close() }

func cartKey(areaKey string) string { return "cart:" + areaKey }

var _ domain.CartRepository = (*RedisCartStore)(nil)
