package registry

import (
	"context"
	"strconv"
	"sync"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// Registry is the process-local dashboard trip registry. Its contents are lost on restart.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []domain.RegistryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make([]domain.RegistryEntry, 0)}
}

func (r *Registry) Add(ctx context.Context, entry domain.RegistryEntry) (domain.RegistryEntry, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	entry = cloneEntry(entry)
	entry.ID = len(r.entries) + 1
	r.entries = append(r.entries, entry)
	return cloneEntry(entry), nil
}

func (r *Registry) Remove(ctx context.Context, id string) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if strconv.Itoa(e.ID) != id {
			continue
		}
		r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
		return true, nil
	}
	return false, nil
}

func (r *Registry) List(ctx context.Context) ([]domain.RegistryEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

func cloneEntry(e domain.RegistryEntry) domain.RegistryEntry {
	cp := e
	cp.ImageURLs = append([]string(nil), e.ImageURLs...)
	cp.Itinerary = append([]domain.ItinerarySummary(nil), e.Itinerary...)
	cp.Tags = append([]string(nil), e.Tags...)
	return cp
}
