package registry

import (
	"context"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// Registry is the ordered collection of trips shown on the dashboard.
// It is independent of the trip repository; nothing keeps the two in sync.
type Registry interface {
	// Add appends entry to the tail, assigning ID = current length + 1.
	// The caller's entry.ID is ignored.
	Add(ctx context.Context, entry domain.RegistryEntry) (domain.RegistryEntry, error)

	// Remove deletes the first entry whose decimal ID equals id and reports whether one was found.
	// A missing id is a no-op.
	Remove(ctx context.Context, id string) (bool, error)

	// List returns the entries in insertion order.
	List(ctx context.Context) ([]domain.RegistryEntry, error)
}
