package blobs

import (
	"context"
	"slices"
	"sort"
	"sync"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{slots: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.slots[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (r *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[key] = cloneValue(value)
	return nil
}

func (r *MemoryRepository) SetAll(_ context.Context, items map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range items {
		r.slots[k] = cloneValue(v)
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.slots, key)
	return nil
}

func (r *MemoryRepository) Close() error { return nil }

func cloneValue(v []byte) []byte {
	if v == nil {
		return []byte{}
	}
	return slices.Clone(v)
}

func sortedKeys(items map[string][]byte) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
