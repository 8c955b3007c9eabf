package triprepo

import (
	"context"
	"sort"
	"sync"

	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TripID]domain.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]domain.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	_ = ctx
	if t.ID == "" {
		return triprepo.ErrAlreadyExists // treat empty ID as invalid for now
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Trip, int, error) {
	_ = ctx
	r.mu.RLock()
	all := make([]domain.Trip, 0, len(r.byID))
	for _, t := range r.byID {
		all = append(all, t)
	}
	r.mu.RUnlock()

	sortTrips(all)
	total := len(all)

	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return []domain.Trip{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]domain.Trip, 0, end-offset)
	for _, t := range all[offset:end] {
		out = append(out, cloneTrip(t))
	}
	return out, total, nil
}

func cloneTrip(t domain.Trip) domain.Trip {
	cp := t
	cp.TripDraft = domain.CloneDraft(t.TripDraft)
	return cp
}

func sortTrips(ts []domain.Trip) {
	// Newest first; ties broken by ID descending so paging is stable.
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return string(a.ID) > string(b.ID)
	})
}
