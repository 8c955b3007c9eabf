package itest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tourvisto/trip-admin-api/internal/adapters/httpapi"
	memclock "github.com/tourvisto/trip-admin-api/internal/adapters/memory/clock"
	memidempotency "github.com/tourvisto/trip-admin-api/internal/adapters/memory/idempotency"
	memnavstate "github.com/tourvisto/trip-admin-api/internal/adapters/memory/navstate"
	memregistry "github.com/tourvisto/trip-admin-api/internal/adapters/memory/registry"
	memtriprepo "github.com/tourvisto/trip-admin-api/internal/adapters/memory/triprepo"
	pgidempotency "github.com/tourvisto/trip-admin-api/internal/adapters/postgres/idempotency"
	postgres_testutil "github.com/tourvisto/trip-admin-api/internal/adapters/postgres/testutil"
	pgtriprepo "github.com/tourvisto/trip-admin-api/internal/adapters/postgres/triprepo"
	"github.com/tourvisto/trip-admin-api/internal/app/catalog"
	"github.com/tourvisto/trip-admin-api/internal/app/drafts"
	"github.com/tourvisto/trip-admin-api/internal/app/payments"
	"github.com/tourvisto/trip-admin-api/internal/app/pricing"
	"github.com/tourvisto/trip-admin-api/internal/app/transitions"
	"github.com/tourvisto/trip-admin-api/internal/app/trips"
	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
	idempotencyport "github.com/tourvisto/trip-admin-api/internal/ports/out/idempotency"
	triprepoport "github.com/tourvisto/trip-admin-api/internal/ports/out/triprepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

// offlineCountries always fails so the catalog serves its fallback list.
type offlineCountries struct{}

func (offlineCountries) FetchCountries(context.Context) ([]domain.Country, error) {
	return nil, io.ErrUnexpectedEOF
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		tripRepo  triprepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		tripRepo = pgtriprepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, clk, 24*time.Hour)
	case backendMemory:
		tripRepo = memtriprepo.NewRepo()
		idemStore = memidempotency.NewStore(clk, 24*time.Hour)
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	carrier := transitions.NewCarrier(memnavstate.NewStore(clk, time.Hour))
	tripSvc := trips.NewService(tripRepo, memregistry.NewRegistry(), clk, sl.Discard(), nil)
	api := httpapi.NewServer(httpapi.Server{
		Catalog:  catalog.NewLoader(offlineCountries{}, sl.Discard(), nil),
		Drafts:   drafts.NewBuilder(pricing.NewEstimator(pricing.DefaultRates())),
		Carrier:  carrier,
		Trips:    tripSvc,
		Payments: payments.NewService(carrier, tripSvc, clk, sl.Discard(), nil, 0, time.Hour),
		Idem:     idemStore,
		Log:      sl.Discard(),
	})

	// An empty default subject forces requests to send X-Debug-Subject, which
	// keeps auth-failure coverage in reach.
	authMW := httpapi.NewDevAuthMiddleware("", "")
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

type actor struct {
	subject string
	email   string
}

func (s *testServer) doJSON(t *testing.T, method string, path string, who actor, body any, hdr map[string]string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if who.subject != "" {
		req.Header.Set("X-Debug-Subject", who.subject)
	}
	if who.email != "" {
		req.Header.Set("X-Debug-Email", who.email)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID string         `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) errorResponse {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
	return got
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
