package trips_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/tourvisto/trip-admin-api/internal/adapters/memory/clock"
	memregistry "github.com/tourvisto/trip-admin-api/internal/adapters/memory/registry"
	memtriprepo "github.com/tourvisto/trip-admin-api/internal/adapters/memory/triprepo"
	"github.com/tourvisto/trip-admin-api/internal/app/trips"
	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/platform/metrics"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/triprepo"
)

type failingRepo struct{ err error }

func (f failingRepo) Create(context.Context, domain.Trip) error { return f.err }
func (f failingRepo) GetByID(context.Context, domain.TripID) (domain.Trip, error) {
	return domain.Trip{}, f.err
}
func (f failingRepo) List(context.Context, int, int) ([]domain.Trip, int, error) {
	return nil, 0, f.err
}

type idlessRepo struct{ failingRepo }

func (idlessRepo) GetByID(context.Context, domain.TripID) (domain.Trip, error) {
	return domain.Trip{TripDraft: domain.TripDraft{Name: "ghost"}}, nil
}

type failingRegistry struct{ err error }

func (f failingRegistry) Add(context.Context, domain.RegistryEntry) (domain.RegistryEntry, error) {
	return domain.RegistryEntry{}, f.err
}
func (f failingRegistry) Remove(context.Context, string) (bool, error) { return false, f.err }
func (f failingRegistry) List(context.Context) ([]domain.RegistryEntry, error) {
	return nil, f.err
}

func japanDraft() domain.TripDraft {
	return domain.TripDraft{
		Country:        "Japan",
		TravelStyle:    "Cultural",
		Interests:      "Food & Culinary",
		Budget:         domain.BudgetLuxury,
		Duration:       5,
		GroupType:      "Couple",
		Name:           "Japan Cultural Adventure",
		EstimatedPrice: "$500",
		ImageURLs:      []string{"/assets/images/sample2.jpg"},
		Tags:           []string{"Cultural", "Luxury", "Couple"},
	}
}

func newService(t *testing.T, repo triprepo.Repository) (*trips.Service, *memregistry.Registry, *memclock.ManualClock) {
	t.Helper()
	reg := memregistry.NewRegistry()
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	svc := trips.NewService(repo, reg, clk, sl.Discard(), nil)
	return svc, reg, clk
}

func TestService_SaveDraft_PersistsAndRegisters(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	svc, reg, _ := newService(t, repo)
	svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })

	res, err := svc.SaveDraft(context.Background(), japanDraft())
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.Equal(t, trips.MessageSavedEverywhere, res.Message)
	require.NotNil(t, res.Trip)
	assert.Equal(t, domain.TripID("t1"), res.Trip.ID)
	assert.Equal(t, time.Unix(1000, 0).UTC(), res.Trip.CreatedAt)

	assert.Equal(t, 1, res.Entry.ID)
	assert.Equal(t, "Japan Cultural Adventure", res.Entry.Name)
	assert.Equal(t, []domain.ItinerarySummary{{Location: "Japan"}}, res.Entry.Itinerary)
	assert.Equal(t, []string{"Cultural", "Luxury", "Couple"}, res.Entry.Tags)
	assert.Equal(t, "$500", res.Entry.EstimatedPrice)

	stored, err := repo.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Japan Cultural Adventure", stored.Name)

	entries, _ := reg.List(context.Background())
	assert.Len(t, entries, 1)
}

func TestService_SaveDraft_StoreFailureStillRegisters(t *testing.T) {
	t.Parallel()

	svc, reg, _ := newService(t, failingRepo{err: errors.New("connection refused")})

	res, err := svc.SaveDraft(context.Background(), japanDraft())
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Nil(t, res.Trip)
	assert.Equal(t, trips.MessageSavedDashboard, res.Message)

	entries, _ := reg.List(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].ID)
}

func TestService_SaveDraft_RegistryFailure(t *testing.T) {
	t.Parallel()

	svc := trips.NewService(memtriprepo.NewRepo(), failingRegistry{err: errors.New("boom")},
		memclock.NewManualClock(time.Unix(0, 0)), sl.Discard(), nil)

	_, err := svc.SaveDraft(context.Background(), japanDraft())
	var appErr *trips.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Status)
	assert.Equal(t, "SAVE_FAILED", appErr.Code)
}

func TestService_SaveDraft_RepeatedSavesAppend(t *testing.T) {
	t.Parallel()

	svc, reg, _ := newService(t, memtriprepo.NewRepo())
	for i := 0; i < 3; i++ {
		_, err := svc.SaveDraft(context.Background(), japanDraft())
		require.NoError(t, err)
	}
	entries, _ := reg.List(context.Background())
	require.Len(t, entries, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestService_SaveDraft_CountsOutcome(t *testing.T) {
	t.Parallel()

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	svc := trips.NewService(failingRepo{err: errors.New("down")}, memregistry.NewRegistry(),
		memclock.NewManualClock(time.Unix(0, 0)), sl.Discard(), m)

	_, err := svc.SaveDraft(context.Background(), japanDraft())
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(promReg, "trip_admin_trip_saves_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_ListTrips_NewestFirstAndEmpty(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	svc, _, clk := newService(t, repo)

	page, err := svc.ListTrips(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Trips)
	assert.Empty(t, page.Trips)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, trips.DefaultPageLimit, page.Limit)

	for _, name := range []string{"a", "b", "c"} {
		d := japanDraft()
		d.Name = name
		_, err := svc.CreateTrip(context.Background(), d)
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	page, err = svc.ListTrips(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Trips, 2)
	assert.Equal(t, "c", page.Trips[0].Name)
	assert.Equal(t, "b", page.Trips[1].Name)
}

func TestService_LoadTripsPage_FallsBackToEmpty(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService(t, failingRepo{err: errors.New("timeout")})

	_, err := svc.ListTrips(context.Background(), 10, 0)
	require.Error(t, err)

	page := svc.LoadTripsPage(context.Background(), 10, 0)
	assert.Empty(t, page.Trips)
	assert.NotNil(t, page.Trips)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 10, page.Limit)
}

func TestService_GetTrip(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	svc, _, _ := newService(t, repo)
	svc.SetNewTripIDForTest(func() domain.TripID { return "t1" })
	_, err := svc.CreateTrip(context.Background(), japanDraft())
	require.NoError(t, err)

	got, err := svc.GetTrip(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Japan Cultural Adventure", got.Name)

	for _, id := range []domain.TripID{"", "missing"} {
		_, err := svc.GetTrip(context.Background(), id)
		var appErr *trips.Error
		require.ErrorAs(t, err, &appErr, "id=%q", id)
		assert.Equal(t, 404, appErr.Status)
		assert.Equal(t, "TRIP_NOT_FOUND", appErr.Code)
	}
}

func TestService_GetTrip_RecordWithoutIDIsNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService(t, idlessRepo{})
	_, err := svc.GetTrip(context.Background(), "t1")
	var appErr *trips.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestService_GetTrip_TransportErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("network")
	svc, _, _ := newService(t, failingRepo{err: boom})
	_, err := svc.GetTrip(context.Background(), "t1")
	assert.ErrorIs(t, err, boom)
}

func TestService_DashboardAndRemove(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService(t, memtriprepo.NewRepo())
	_, _ = svc.SaveDraft(context.Background(), japanDraft())
	_, _ = svc.SaveDraft(context.Background(), japanDraft())

	require.NoError(t, svc.RemoveFromDashboard(context.Background(), "1"))
	require.NoError(t, svc.RemoveFromDashboard(context.Background(), "42"))

	dash, err := svc.Dashboard(context.Background(), "john.doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", dash.Greeting)
	require.Len(t, dash.Trips, 1)
	assert.Equal(t, 2, dash.Trips[0].ID)
}

func TestNameFromEmail(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                     "Guest",
		"john.doe@example.com": "John Doe",
		"john@example.com":     "John",
		"ann.marie.li@x.io":    "Ann Marie Li",
		"noatsign":             "Noatsign",
	}
	for in, want := range cases {
		assert.Equal(t, want, trips.NameFromEmail(in), "email=%q", in)
	}
}

func TestService_RemoveFromDashboard_CountsOnlyRemovals(t *testing.T) {
	t.Parallel()

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	svc := trips.NewService(memtriprepo.NewRepo(), memregistry.NewRegistry(),
		memclock.NewManualClock(time.Unix(0, 0)), sl.Discard(), m)
	_, err := svc.SaveDraft(context.Background(), japanDraft())
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromDashboard(context.Background(), "42"))
	require.NoError(t, svc.RemoveFromDashboard(context.Background(), "1"))
	require.NoError(t, svc.RemoveFromDashboard(context.Background(), "1"))

	want := `
# HELP trip_admin_registry_removals_total Dashboard entries removed. Deletes of unknown ids are not counted.
# TYPE trip_admin_registry_removals_total counter
trip_admin_registry_removals_total 1
`
	require.NoError(t, testutil.GatherAndCompare(promReg, strings.NewReader(want), "trip_admin_registry_removals_total"))
}
