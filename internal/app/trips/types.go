package trips

import "github.com/tourvisto/trip-admin-api/internal/domain"

// TripPage is one page of persisted trips, newest first.
type TripPage struct {
	Trips  []domain.Trip
	Total  int
	Limit  int
	Offset int
}

// SaveResult reports the outcome of saving a draft.
// Trip is nil when the trip store rejected the draft.
type SaveResult struct {
	Entry     domain.RegistryEntry
	Trip      *domain.Trip
	Persisted bool
	Message   string
}

// Dashboard is the registry contents plus a greeting for the caller.
type Dashboard struct {
	Greeting string
	Trips    []domain.RegistryEntry
}

const (
	MessageSavedEverywhere = "Trip saved successfully to database and dashboard!"
	MessageSavedDashboard  = "Trip saved to dashboard! (Database save skipped)"
)
