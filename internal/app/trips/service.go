package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/platform/metrics"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/clock"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/registry"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/triprepo"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type Service struct {
	trips    triprepo.Repository
	registry registry.Registry
	clock    clock.Clock
	log      *slog.Logger
	metrics  *metrics.Metrics

	newTripID func() domain.TripID
}

func NewService(tripsRepo triprepo.Repository, reg registry.Registry, clk clock.Clock, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		trips:    tripsRepo,
		registry: reg,
		clock:    clk,
		log:      log,
		metrics:  m,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Service) ListTrips(ctx context.Context, limit, offset int) (TripPage, error) {
	const op = "trips.ListTrips"

	limit, offset = normalizePage(limit, offset)
	ts, total, err := s.trips.List(ctx, limit, offset)
	if err != nil {
		return TripPage{}, fmt.Errorf("%s: %w", op, err)
	}
	if total == 0 {
		s.log.Info("no trips found", slog.String("op", op))
		return TripPage{Trips: []domain.Trip{}, Total: 0, Limit: limit, Offset: offset}, nil
	}
	return TripPage{Trips: ts, Total: total, Limit: limit, Offset: offset}, nil
}

// LoadTripsPage never fails: a store error yields an empty page.
func (s *Service) LoadTripsPage(ctx context.Context, limit, offset int) TripPage {
	const op = "trips.LoadTripsPage"

	page, err := s.ListTrips(ctx, limit, offset)
	if err != nil {
		s.log.Error("failed to load trips", slog.String("op", op), sl.Err(err))
		limit, offset = normalizePage(limit, offset)
		return TripPage{Trips: []domain.Trip{}, Total: 0, Limit: limit, Offset: offset}
	}
	return page
}

func (s *Service) GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	const op = "trips.GetTrip"

	if id == "" {
		return domain.Trip{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
	}
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	if t.ID == "" {
		s.log.Info("stored trip has no id", slog.String("op", op), slog.String("trip_id", string(id)))
		return domain.Trip{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
	}
	return t, nil
}

func (s *Service) CreateTrip(ctx context.Context, draft domain.TripDraft) (domain.Trip, error) {
	const op = "trips.CreateTrip"

	t := domain.Trip{
		ID:        s.newTripID(),
		TripDraft: domain.CloneDraft(draft),
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return domain.Trip{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// SaveDraft stores the draft in the trip store when it can and always appends it to the dashboard registry.
// The two stores are not kept consistent: a store failure still yields a registry entry.
func (s *Service) SaveDraft(ctx context.Context, draft domain.TripDraft) (SaveResult, error) {
	const op = "trips.SaveDraft"

	res := SaveResult{}
	t, err := s.CreateTrip(ctx, draft)
	if err != nil {
		s.log.Warn("trip store save failed, continuing with dashboard save", slog.String("op", op), sl.Err(err))
	} else {
		res.Trip = &t
		res.Persisted = true
	}

	entry, err := s.registry.Add(ctx, EntryFromDraft(draft))
	if err != nil {
		s.log.Error("dashboard save failed", slog.String("op", op), sl.Err(err))
		return SaveResult{}, &Error{Status: 500, Code: "SAVE_FAILED", Message: "Failed to save trip. Please try again."}
	}
	res.Entry = entry
	res.Message = MessageSavedDashboard
	if res.Persisted {
		res.Message = MessageSavedEverywhere
	}
	s.metrics.TripSaved(res.Persisted)
	return res, nil
}

func (s *Service) Dashboard(ctx context.Context, email string) (Dashboard, error) {
	const op = "trips.Dashboard"

	entries, err := s.registry.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}
	return Dashboard{Greeting: NameFromEmail(email), Trips: entries}, nil
}

// RemoveFromDashboard drops the registry entry with the given id. Unknown ids are ignored.
func (s *Service) RemoveFromDashboard(ctx context.Context, id string) error {
	const op = "trips.RemoveFromDashboard"

	removed, err := s.registry.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if removed {
		s.metrics.RegistryRemoval()
	} else {
		s.log.Debug("dashboard entry not found", slog.String("op", op), slog.String("id", id))
	}
	return nil
}

// EntryFromDraft projects a draft onto the dashboard card shape. ID is left for the registry to assign.
func EntryFromDraft(d domain.TripDraft) domain.RegistryEntry {
	return domain.RegistryEntry{
		Name:           d.Name,
		ImageURLs:      append([]string(nil), d.ImageURLs...),
		Itinerary:      []domain.ItinerarySummary{{Location: d.Country}},
		Tags:           domain.Tags(d.TravelStyle, d.Budget, d.GroupType),
		TravelStyle:    d.TravelStyle,
		EstimatedPrice: d.EstimatedPrice,
	}
}

// NameFromEmail turns the local part of an email into a display name:
// "john.doe@x" is "John Doe", "john@x" is "John", and "" is "Guest".
func NameFromEmail(email string) string {
	if email == "" {
		return "Guest"
	}
	local, _, _ := strings.Cut(email, "@")
	parts := strings.Split(local, ".")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
