// Package payments simulates a card checkout for a trip.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/tourvisto/trip-admin-api/internal/app/transitions"
	"github.com/tourvisto/trip-admin-api/internal/app/trips"
	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/platform/metrics"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/clock"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/navstate"
)

const (
	DefaultDelay = 2 * time.Second
	// DefaultSessionTTL applies when NewService is given a non-positive ttl.
	DefaultSessionTTL = 30 * time.Minute
)

// TripFinder resolves a persisted trip. A missing trip is a *trips.Error with status 404.
type TripFinder interface {
	GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error)
}

type Service struct {
	carrier  *transitions.Carrier
	trips    TripFinder
	clock    clock.Clock
	log      *slog.Logger
	metrics  *metrics.Metrics
	delay    time.Duration
	ttl      time.Duration
	validate *validator.Validate

	newID func() domain.PaymentID
	sleep func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	sessions map[domain.PaymentID]*Session
}

// NewService keeps sessions for ttl after their last state change; expired sessions are
// swept on Begin and answer 404 afterwards.
func NewService(carrier *transitions.Carrier, tf TripFinder, clk clock.Clock, log *slog.Logger, m *metrics.Metrics, delay, ttl time.Duration) *Service {
	if delay < 0 {
		delay = 0
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		carrier:  carrier,
		trips:    tf,
		clock:    clk,
		log:      log,
		metrics:  m,
		delay:    delay,
		ttl:      ttl,
		validate: newValidator(),
		newID: func() domain.PaymentID {
			return domain.PaymentID(uuid.NewString())
		},
		sleep:    sleepContext,
		sessions: make(map[domain.PaymentID]*Session),
	}
}

// SetNewIDForTest overrides payment ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewIDForTest(fn func() domain.PaymentID) {
	if fn != nil {
		s.newID = fn
	}
}

// SetSleepForTest replaces the processing delay.
// It should not be used in production code.
func (s *Service) SetSleepForTest(fn func(ctx context.Context, d time.Duration) error) {
	if fn != nil {
		s.sleep = fn
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Begin opens a session for src. When no trip can be resolved the session is NoTrip, which is terminal.
func (s *Service) Begin(ctx context.Context, src Source) (Session, error) {
	const op = "payments.Begin"

	now := s.clock.Now().UTC()
	sess := &Session{
		ID:        s.newID(),
		State:     StateLoading,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	switch {
	case src.TransitionID != "":
		p, ok, err := s.carrier.Receive(ctx, src.TransitionID)
		if err != nil {
			return Session{}, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			sess.Draft, sess.Trip = cloneDraft(p.Draft), cloneTrip(p.Trip)
		}
	case src.TripID != "":
		t, err := s.trips.GetTrip(ctx, src.TripID)
		var appErr *trips.Error
		switch {
		case errors.As(err, &appErr) && appErr.Status == 404:
			// falls through to NoTrip
		case err != nil:
			return Session{}, fmt.Errorf("%s: %w", op, err)
		default:
			sess.Trip = &t
		}
	}

	if d, ok := sess.TripDraft(); ok {
		sess.State = StateReady
		sess.Amount = d.EstimatedPrice
	} else {
		sess.State = StateNoTrip
		s.metrics.Payment(string(StateNoTrip))
	}

	s.mu.Lock()
	s.sweepLocked(s.clock.Now())
	s.sessions[sess.ID] = sess
	out := cloneSession(sess)
	s.mu.Unlock()

	s.log.Debug("payment session opened", slog.String("op", op), slog.String("payment_id", string(out.ID)), slog.String("state", string(out.State)))
	return out, nil
}

func (s *Service) Get(ctx context.Context, id domain.PaymentID) (Session, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.lookupLocked(id, s.clock.Now())
	if !ok {
		return Session{}, errPaymentNotFound()
	}
	return cloneSession(sess), nil
}

// Len reports the number of unexpired sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.clock.Now())
	return len(s.sessions)
}

func (s *Service) lookupLocked(id domain.PaymentID, now time.Time) (*Session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if !now.Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

func (s *Service) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}

// touchLocked records a state change and pushes the expiry out.
func (s *Service) touchLocked(sess *Session) {
	now := s.clock.Now().UTC()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
}

func errPaymentNotFound() *Error {
	return &Error{Status: 404, Code: "PAYMENT_NOT_FOUND", Message: "payment not found"}
}

// Submit simulates processing: Ready moves to Processing, waits the configured delay, then Succeeded.
// If ctx ends during the wait the session goes back to Ready and nothing is published.
func (s *Service) Submit(ctx context.Context, id domain.PaymentID, details CardDetails) (Session, error) {
	const op = "payments.Submit"

	if err := s.validateCard(normalizeCard(details)); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	sess, ok := s.lookupLocked(id, s.clock.Now())
	if !ok {
		s.mu.Unlock()
		return Session{}, errPaymentNotFound()
	}
	if sess.State != StateReady {
		state := sess.State
		s.mu.Unlock()
		return Session{}, &Error{
			Status:  409,
			Code:    "PAYMENT_NOT_READY",
			Message: "payment is not ready",
			Details: map[string]any{"state": string(state)},
		}
	}
	sess.State = StateProcessing
	s.touchLocked(sess)
	payload := navstate.Payload{
		Draft:         cloneDraft(sess.Draft),
		Trip:          cloneTrip(sess.Trip),
		PaymentAmount: sess.Amount,
	}
	s.mu.Unlock()

	if err := s.sleep(ctx, s.delay); err != nil {
		s.revert(id)
		s.log.Info("payment abandoned during processing", slog.String("op", op), slog.String("payment_id", string(id)), sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	transitionID, err := s.carrier.Send(ctx, payload)
	if err != nil {
		s.revert(id)
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	sess.State = StateSucceeded
	sess.SuccessTransitionID = transitionID
	s.touchLocked(sess)
	out := cloneSession(sess)
	s.mu.Unlock()

	s.metrics.Payment(string(StateSucceeded))
	return out, nil
}

func (s *Service) revert(id domain.PaymentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok && sess.State == StateProcessing {
		sess.State = StateReady
		s.touchLocked(sess)
	}
}

// Success resolves the payload published by a successful Submit.
func (s *Service) Success(ctx context.Context, transitionID domain.TransitionID) (SuccessView, error) {
	const op = "payments.Success"

	view := SuccessView{Title: SuccessTitle}
	p, ok, err := s.carrier.Receive(ctx, transitionID)
	if err != nil {
		return SuccessView{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return view, nil
	}
	d, ok := p.TripDraft()
	if !ok {
		return view, nil
	}
	view.Found = true
	view.Draft = &d
	view.PaymentAmount = p.PaymentAmount
	return view, nil
}

func cloneDraft(d *domain.TripDraft) *domain.TripDraft {
	if d == nil {
		return nil
	}
	cp := domain.CloneDraft(*d)
	return &cp
}

func cloneTrip(t *domain.Trip) *domain.Trip {
	if t == nil {
		return nil
	}
	cp := *t
	cp.TripDraft = domain.CloneDraft(t.TripDraft)
	return &cp
}

func cloneSession(s *Session) Session {
	cp := *s
	cp.Draft = cloneDraft(s.Draft)
	cp.Trip = cloneTrip(s.Trip)
	return cp
}
