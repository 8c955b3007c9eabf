package countries

import (
	"context"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// Source fetches the full country list from an upstream provider.
// Implementations return an error for transport failures and for responses
// that are not a list of countries.
type Source interface {
	FetchCountries(ctx context.Context) ([]domain.Country, error)
}
