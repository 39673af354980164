package leads

import (
	"context"
	"sort"
	"sync"
)

// Repository defines the interface for lead storage. Put is a plain insert:
// every submission mints a fresh id, so upsert semantics are not required.
type Repository interface {
	Put(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	ListRecent(ctx context.Context, limit int) ([]*Lead, error)
}

// InMemoryRepository keeps leads in a map. It backs development mode and
// tests; production uses the DynamoDB repository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Put stores a lead, rejecting duplicate ids.
func (r *InMemoryRepository) Put(ctx context.Context, lead *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.leads[lead.ID]; exists {
		return ErrDuplicateID
	}
	copied := *lead
	r.leads[lead.ID] = &copied
	return nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copied := *lead
	return &copied, nil
}

// ListRecent returns up to limit leads, newest first.
func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		copied := *lead
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAtEpochMillis > out[j].CreatedAtEpochMillis
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
