package navstate

import (
	"context"
	"errors"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

var ErrNotFound = errors.New("navigation state not found")

// Payload is the data handed from one view to the next.
// At most one of Draft and Trip is set.
type Payload struct {
	Draft *domain.TripDraft `json:"tripData,omitempty"`
	Trip  *domain.Trip      `json:"trip,omitempty"`

	IsEditing     bool   `json:"isEditing,omitempty"`
	IsNewTrip     bool   `json:"isNewTrip,omitempty"`
	PaymentAmount string `json:"paymentAmount,omitempty"`
}

// TripDraft returns the draft carried by p, taking it from Trip when only a persisted trip is set.
func (p Payload) TripDraft() (domain.TripDraft, bool) {
	switch {
	case p.Draft != nil:
		return *p.Draft, true
	case p.Trip != nil:
		return p.Trip.TripDraft, true
	default:
		return domain.TripDraft{}, false
	}
}

// Store keeps payloads for a bounded time. Expired payloads behave as missing.
type Store interface {
	Put(ctx context.Context, id domain.TransitionID, p Payload) error
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id domain.TransitionID) (Payload, error)
	Delete(ctx context.Context, id domain.TransitionID) error
}
