// Package transitions hands typed payloads from one view to the next.
package transitions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/navstate"
)

type Carrier struct {
	store navstate.Store

	newID func() domain.TransitionID
}

func NewCarrier(store navstate.Store) *Carrier {
	return &Carrier{
		store: store,
		newID: func() domain.TransitionID {
			return domain.TransitionID(uuid.NewString())
		},
	}
}

// SetNewIDForTest overrides transition ID generation for deterministic tests.
// It should not be used in production code.
func (c *Carrier) SetNewIDForTest(fn func() domain.TransitionID) {
	if fn != nil {
		c.newID = fn
	}
}

// Send stores p under a fresh transition id.
func (c *Carrier) Send(ctx context.Context, p navstate.Payload) (domain.TransitionID, error) {
	const op = "transitions.Send"

	id := c.newID()
	if err := c.store.Put(ctx, id, p); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Receive returns the payload sent under id. A missing or expired payload is ok=false, not an error.
func (c *Carrier) Receive(ctx context.Context, id domain.TransitionID) (navstate.Payload, bool, error) {
	const op = "transitions.Receive"

	if id == "" {
		return navstate.Payload{}, false, nil
	}
	p, err := c.store.Get(ctx, id)
	if errors.Is(err, navstate.ErrNotFound) {
		return navstate.Payload{}, false, nil
	}
	if err != nil {
		return navstate.Payload{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return p, true, nil
}
