package triprepo

import (
	"context"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// Repository is the trip document collection.
//
// Result ordering expectations:
// - List returns trips by CreatedAt descending, ties broken by ID descending.
type Repository interface {
	// Create stores t under t.ID. An empty or duplicate ID yields ErrAlreadyExists.
	Create(ctx context.Context, t domain.Trip) error

	// GetByID returns ErrNotFound when no trip has the given id.
	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)

	// List returns at most limit trips after skipping offset, plus the total number of trips.
	List(ctx context.Context, limit, offset int) ([]domain.Trip, int, error)
}
