package calls

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and the seed CLI's dry-run mode.
// Like the store, it ignores a second insert with the same id.
type MemoryRepo struct {
	mu      sync.Mutex
	records []CallRecord
	seen    map[string]struct{}

	// InsertErr, when set, fails every insert.
	InsertErr error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{seen: make(map[string]struct{})}
}

func (r *MemoryRepo) InsertCallRecord(ctx context.Context, rec CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.InsertErr != nil {
		return fmt.Errorf("%w: %w", ErrStorage, r.InsertErr)
	}
	if _, ok := r.seen[rec.ID]; ok {
		return nil
	}
	r.seen[rec.ID] = struct{}{}
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryRepo) Records() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CallRecord, len(r.records))
	copy(out, r.records)
	return out
}
