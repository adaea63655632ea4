package cache

import (
	"context"
	"sync"

	"github.com/example/cart-state-service/internal/domain"
)

// MemoryCartStore — in-memory CartRepository for tests and infra-less runs.
type MemoryCartStore struct {
	mu    sync.RWMutex
	store map[string][]domain.CartLineItem
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{store: make(map[string][]domain.CartLineItem)}
}

func (c *MemoryCartStore) Save(_ context.Context, areaKey string, items []domain.CartLineItem) error {
	cp := make([]domain.CartLineItem, len(items))
	copy(cp, items)
	c.mu.Lock()
	c.store[areaKey] = cp
	c.mu.Unlock()
	return nil
}

func (c *MemoryCartStore) Load(_ context.Context, areaKey string) ([]domain.CartLineItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.store[areaKey]
	if !ok {
		return nil, nil
	}
	cp := make([]domain.CartLineItem, len(items))
	copy(cp, items)
	return cp, nil
}

var _ domain.CartRepository = (*MemoryCartStore)(nil)
