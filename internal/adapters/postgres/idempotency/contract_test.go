package idempotency

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/tourvisto/trip-admin-api/internal/adapters/contracttest"
	memclock "github.com/tourvisto/trip-admin-api/internal/adapters/memory/clock"
	"github.com/tourvisto/trip-admin-api/internal/adapters/postgres/testutil"
	idempotencyport "github.com/tourvisto/trip-admin-api/internal/ports/out/idempotency"
)

func TestContract_PostgresIdempotencyStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(pool, clk, 24*time.Hour), nil
	})
}

func TestStore_RetentionFollowsClock(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s := NewStore(pool, clk, time.Hour)
	ctx := context.Background()

	fp := idempotencyport.Fingerprint{
		Key:      "retention-key",
		Subject:  "sub-retention",
		Method:   http.MethodPost,
		Route:    "/drafts/{transitionId}/save",
		BodyHash: "h1",
	}
	if err := s.Put(ctx, fp, idempotencyport.Record{StatusCode: 201, ContentType: "application/json", Body: []byte(`{}`)}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	clk.Advance(59 * time.Minute)
	rec, ok, err := s.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get inside retention: ok=%v err=%v", ok, err)
	}
	if !rec.CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("createdAt=%v, want the clock's time", rec.CreatedAt)
	}

	clk.Advance(2 * time.Minute)
	if _, ok, err := s.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get past retention: ok=%v err=%v", ok, err)
	}
}
