package navstate

import (
	"context"
	"sync"
	"time"

	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/clock"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/navstate"
)

type entry struct {
	payload   navstate.Payload
	expiresAt time.Time
}

// Store keeps navigation payloads in process memory until their TTL passes.
// It is safe for concurrent use.
type Store struct {
	clk clock.Clock
	ttl time.Duration

	mu sync.Mutex
	m  map[domain.TransitionID]entry
}

func NewStore(clk clock.Clock, ttl time.Duration) *Store {
	return &Store{
		clk: clk,
		ttl: ttl,
		m:   make(map[domain.TransitionID]entry),
	}
}

func (s *Store) Put(ctx context.Context, id domain.TransitionID, p navstate.Payload) error {
	_ = ctx
	now := s.clk.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.m[id] = entry{payload: clonePayload(p), expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.TransitionID) (navstate.Payload, error) {
	_ = ctx
	now := s.clk.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return navstate.Payload{}, navstate.ErrNotFound
	}
	if !now.Before(e.expiresAt) {
		delete(s.m, id)
		return navstate.Payload{}, navstate.ErrNotFound
	}
	return clonePayload(e.payload), nil
}

func (s *Store) Delete(ctx context.Context, id domain.TransitionID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

// Len reports the number of unexpired payloads.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.clk.Now())
	return len(s.m)
}

func (s *Store) sweepLocked(now time.Time) {
	for id, e := range s.m {
		if !now.Before(e.expiresAt) {
			delete(s.m, id)
		}
	}
}

func clonePayload(p navstate.Payload) navstate.Payload {
	cp := p
	if p.Draft != nil {
		d := domain.CloneDraft(*p.Draft)
		cp.Draft = &d
	}
	if p.Trip != nil {
		tr := *p.Trip
		tr.TripDraft = domain.CloneDraft(p.Trip.TripDraft)
		cp.Trip = &tr
	}
	return cp
}
