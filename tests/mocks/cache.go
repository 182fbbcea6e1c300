package mocks

import (
	"context"
	"encoding/json"
	"sync"

	sharedCache "github.com/vivento/vivento/internal/shared/infra/platform/cache"
)

// DummyCache es una caché en memoria sin TTL para tests.
type DummyCache struct {
	store map[string][]byte
	mu    sync.Mutex
}

func NewDummyCache() *DummyCache {
	return &DummyCache{store: make(map[string][]byte)}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
	return nil
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// SetForTest inserta directamente un valor, para preparar hits de caché.
func (c *DummyCache) SetForTest(key string, val interface{}) {
	_ = c.Set(context.Background(), key, val, 0)
}

// Verificación estática
var _ sharedCache.Cache = (*DummyCache)(nil)
