package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/gas-calc/internal/domain"
)

// memorySnapshotRepo keeps snapshots in a map. It backs one-shot CLI runs
// that have no state file.
type memorySnapshotRepo struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemorySnapshotRepo constructs an empty in-process SnapshotRepo.
func NewMemorySnapshotRepo() SnapshotRepo {
	return &memorySnapshotRepo{blobs: make(map[string][]byte)}
}

func (r *memorySnapshotRepo) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blobs[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemorySnapshotRepo.Load: %w", domain.ErrNotFound)
	}
	return append([]byte(nil), b...), nil
}

func (r *memorySnapshotRepo) Save(_ context.Context, key string, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blobs[key] = append([]byte(nil), blob...)
	return nil
}

func (r *memorySnapshotRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blobs[key]; !ok {
		return fmt.Errorf("repo.MemorySnapshotRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.blobs, key)
	return nil
}
