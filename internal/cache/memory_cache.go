package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value      V
	expiration time.Time
}

func (i item[V]) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// MemoryCache keeps values in process. Expired entries are dropped on access.
type MemoryCache[V any] struct {
	mu     sync.RWMutex
	prefix string
	items  map[string]item[V]
	now    func() time.Time
}

var _ Cache[string] = (*MemoryCache[string])(nil)

func NewMemoryCache[V any](prefix string) *MemoryCache[V] {
	return &MemoryCache[V]{
		prefix: prefix,
		items:  make(map[string]item[V]),
		now:    time.Now,
	}
}

func (mc *MemoryCache[V]) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return mc.now().Add(ttl)
}

func (mc *MemoryCache[V]) Get(_ context.Context, key string) (V, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.lookup(mc.prefix+key, mc.now())
}

func (mc *MemoryCache[V]) lookup(key string, now time.Time) (V, error) {
	var zero V
	itm, ok := mc.items[key]
	if !ok || itm.expired(now) {
		return zero, ErrCacheMiss
	}
	return itm.value, nil
}

func (mc *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	mc.mu.Lock()
	mc.items[mc.prefix+key] = item[V]{value: value, expiration: mc.expiry(ttl)}
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache[V]) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.items, mc.prefix+key)
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache[V]) MGet(_ context.Context, keys ...string) ([]V, []error) {
	results := make([]V, len(keys))
	errs := make([]error, len(keys))

	mc.mu.RLock()
	defer mc.mu.RUnlock()
	now := mc.now()
	for i, k := range keys {
		results[i], errs[i] = mc.lookup(mc.prefix+k, now)
	}
	return results, errs
}

func (mc *MemoryCache[V]) MSet(_ context.Context, kv map[string]V, ttl time.Duration) error {
	exp := mc.expiry(ttl)
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for k, v := range kv {
		mc.items[mc.prefix+k] = item[V]{value: v, expiration: exp}
	}
	return nil
}

// Purge drops every expired entry.
func (mc *MemoryCache[V]) Purge() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	now := mc.now()
	n := 0
	for k, itm := range mc.items {
		if itm.expired(now) {
			delete(mc.items, k)
			n++
		}
	}
	return n
}

func (mc *MemoryCache[V]) Close() error {
	return nil
}
