package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joefazee/wagerbook/internal/cache"
)

// CacheStore keeps one JSON document per section in a cache.Cache backend
// (in-process memory or Redis).
type CacheStore struct {
	cache cache.Cache[json.RawMessage]
}

var _ SnapshotStore = (*CacheStore)(nil)

func NewCacheStore(c cache.Cache[json.RawMessage]) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Save(ctx context.Context, snap *Snapshot) error {
	kv := make(map[string]json.RawMessage, len(sectionKeys))
	for key, section := range snap.sections() {
		raw, err := json.Marshal(section)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		kv[key] = raw
	}
	return s.cache.MSet(ctx, kv, 0)
}

// Load returns ErrNoSnapshot when no section exists. A single missing section
// is restored empty.
func (s *CacheStore) Load(ctx context.Context) (*Snapshot, error) {
	values, errs := s.cache.MGet(ctx, sectionKeys...)

	snap := &Snapshot{}
	sections := snap.sections()
	found := 0
	for i, key := range sectionKeys {
		if errors.Is(errs[i], cache.ErrCacheMiss) {
			continue
		}
		if errors.Is(errs[i], cache.ErrDecode) {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, key, errs[i])
		}
		if errs[i] != nil {
			return nil, fmt.Errorf("load %s: %w", key, errs[i])
		}
		if err := json.Unmarshal(values[i], sections[key]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, key, err)
		}
		found++
	}
	if found == 0 {
		return nil, ErrNoSnapshot
	}
	snap.fill()
	return snap, nil
}
