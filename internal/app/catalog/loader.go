// Package catalog serves the country list offered by the trip form.
package catalog

import (
	"context"
	"log/slog"

	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/platform/metrics"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/countries"
)

// Fallback returns the fixed catalog served when the upstream source fails.
func Fallback() []domain.Country {
	return []domain.Country{
		{Name: "🇺🇸 United States", Value: "United States", Coordinates: domain.Coordinates{38, -97}, MapLink: "https://www.openstreetmap.org/relation/148838"},
		{Name: "🇯🇵 Japan", Value: "Japan", Coordinates: domain.Coordinates{36, 138}, MapLink: "https://www.openstreetmap.org/relation/382313"},
		{Name: "🇫🇷 France", Value: "France", Coordinates: domain.Coordinates{46, 2}, MapLink: "https://www.openstreetmap.org/relation/1403916"},
		{Name: "🇮🇹 Italy", Value: "Italy", Coordinates: domain.Coordinates{42, 12}, MapLink: "https://www.openstreetmap.org/relation/365331"},
		{Name: "🇪🇸 Spain", Value: "Spain", Coordinates: domain.Coordinates{40, -4}, MapLink: "https://www.openstreetmap.org/relation/1311341"},
	}
}

type Loader struct {
	source  countries.Source
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewLoader(source countries.Source, log *slog.Logger, m *metrics.Metrics) *Loader {
	return &Loader{source: source, log: log, metrics: m}
}

// Load returns the upstream country list, or the fallback catalog when the
// upstream call fails for any reason. It never returns an error.
func (l *Loader) Load(ctx context.Context) []domain.Country {
	const op = "catalog.Load"

	cs, err := l.source.FetchCountries(ctx)
	if err != nil {
		l.log.Warn("country fetch failed, serving fallback catalog", slog.String("op", op), sl.Err(err))
		l.metrics.CatalogFallback()
		return Fallback()
	}
	return cs
}
