package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tourvisto/trip-admin-api/internal/domain"
	idempotencyport "github.com/tourvisto/trip-admin-api/internal/ports/out/idempotency"
	navstateport "github.com/tourvisto/trip-admin-api/internal/ports/out/navstate"
	registryport "github.com/tourvisto/trip-admin-api/internal/ports/out/registry"
	triprepoport "github.com/tourvisto/trip-admin-api/internal/ports/out/triprepo"
)

type CleanupFunc = func()

type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type RegistryFactory func(t *testing.T) (registryport.Registry, CleanupFunc)
type NavStateFactory func(t *testing.T) (navstateport.Store, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/drafts/{transitionId}/save",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"persisted":true}`),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"persisted":true}` || got.ContentType != "application/json" || got.StatusCode != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// A different subject with the same key is a different request.
	other := fp
	other.Subject = "sub-2"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other subject: ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"persisted":false}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"persisted":false}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func sampleDraft(name string) domain.TripDraft {
	return domain.TripDraft{
		Country:         "Japan",
		TravelStyle:     "Cultural",
		Interests:       "Food & Culinary",
		Budget:          domain.BudgetMidRange,
		Duration:        3,
		GroupType:       "Couple",
		Name:            name,
		Description:     "A 3-day Cultural trip to Japan",
		EstimatedPrice:  "$150",
		Tags:            []string{"Cultural", "Mid-range", "Couple"},
		ImageURLs:       []string{"/assets/images/sample1.jpg"},
		BestTimeToVisit: []string{"Spring", "Fall"},
		WeatherInfo:     []string{"Mild temperatures", "Low rainfall"},
		Itinerary: []domain.ItineraryDay{
			{Day: 1, Title: "Day 1: Arrival in Japan", Location: "Japan", Activities: []domain.Activity{
				{Time: "09:00", Description: "Arrival and check-in"},
			}},
		},
		Location: domain.Location{City: "Japan", Coordinates: domain.Coordinates{36.2048, 138.2529}},
	}
}

func RunTripRepo(t *testing.T, newRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	base := time.Unix(2000, 0).UTC()
	ids := make([]domain.TripID, 0, 3)
	for i, name := range []string{"first", "second", "third"} {
		id := domain.TripID(uuid.NewString())
		ids = append(ids, id)
		if err := repo.Create(ctx, domain.Trip{
			ID:        id,
			TripDraft: sampleDraft(name),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	got, err := repo.GetByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "first" || got.Budget != domain.BudgetMidRange || len(got.Itinerary) != 1 || got.Itinerary[0].Activities[0].Time != "09:00" {
		t.Fatalf("unexpected trip: %#v", got)
	}
	if got.Location.Coordinates != (domain.Coordinates{36.2048, 138.2529}) {
		t.Fatalf("coordinates=%v", got.Location.Coordinates)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("createdAt=%v, want %v", got.CreatedAt, base)
	}

	if _, err := repo.GetByID(ctx, domain.TripID(uuid.NewString())); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("GetByID missing: err=%v, want ErrNotFound", err)
	}

	// Duplicate id.
	if err := repo.Create(ctx, domain.Trip{ID: ids[1], TripDraft: sampleDraft("dup"), CreatedAt: base}); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate: err=%v, want ErrAlreadyExists", err)
	}

	// Newest first, paged.
	page, total, err := repo.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Fatalf("total=%d, want 3", total)
	}
	if len(page) != 2 || page[0].Name != "third" || page[1].Name != "second" {
		t.Fatalf("unexpected first page: %#v", page)
	}
	page, _, err = repo.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List offset: %v", err)
	}
	if len(page) != 1 || page[0].Name != "first" {
		t.Fatalf("unexpected second page: %#v", page)
	}
	page, total, err = repo.List(ctx, 10, 50)
	if err != nil {
		t.Fatalf("List past end: %v", err)
	}
	if page == nil || len(page) != 0 || total != 3 {
		t.Fatalf("past end: page=%#v total=%d", page, total)
	}
}

func RunRegistry(t *testing.T, newRegistry RegistryFactory) {
	t.Helper()
	ctx := context.Background()

	reg, cleanup := newRegistry(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	list, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty registry, got %#v", list)
	}

	a, err := reg.Add(ctx, domain.RegistryEntry{Name: "A", Tags: []string{"Luxury"}})
	if err != nil {
		t.Fatalf("Add A: %v", err)
	}
	b, err := reg.Add(ctx, domain.RegistryEntry{Name: "B"})
	if err != nil {
		t.Fatalf("Add B: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids=%d,%d, want 1,2", a.ID, b.ID)
	}

	// Unknown id is a no-op.
	if removed, err := reg.Remove(ctx, "99"); err != nil || removed {
		t.Fatalf("Remove unknown: removed=%v err=%v", removed, err)
	}
	if removed, err := reg.Remove(ctx, "1"); err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	list, err = reg.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "B" {
		t.Fatalf("unexpected entries: %#v", list)
	}

	// Returned slices do not alias storage.
	list[0].Name = "mutated"
	list, _ = reg.List(ctx)
	if list[0].Name != "B" {
		t.Fatalf("registry storage was mutated through List result")
	}
}

func RunNavStateStore(t *testing.T, newStore NavStateFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	id := domain.TransitionID(uuid.NewString())
	if _, err := store.Get(ctx, id); !errors.Is(err, navstateport.ErrNotFound) {
		t.Fatalf("Get unknown: err=%v, want ErrNotFound", err)
	}

	d := sampleDraft("carried")
	if err := store.Put(ctx, id, navstateport.Payload{Draft: &d, IsNewTrip: true}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	draft, ok := got.TripDraft()
	if !ok || draft.Name != "carried" || !got.IsNewTrip || got.Trip != nil {
		t.Fatalf("unexpected payload: %#v", got)
	}

	// Overwrite replaces the payload.
	trip := domain.Trip{ID: domain.TripID(uuid.NewString()), TripDraft: sampleDraft("saved"), CreatedAt: time.Unix(10, 0).UTC()}
	if err := store.Put(ctx, id, navstateport.Payload{Trip: &trip, PaymentAmount: "$150"}); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get overwrite: %v", err)
	}
	if got.Draft != nil || got.Trip == nil || got.Trip.ID != trip.ID || got.PaymentAmount != "$150" {
		t.Fatalf("unexpected overwritten payload: %#v", got)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, navstateport.ErrNotFound) {
		t.Fatalf("Get after delete: err=%v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
}
