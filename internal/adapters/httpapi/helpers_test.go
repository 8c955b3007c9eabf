package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/tourvisto/trip-admin-api/internal/adapters/memory/clock"
	memidempotency "github.com/tourvisto/trip-admin-api/internal/adapters/memory/idempotency"
	memnavstate "github.com/tourvisto/trip-admin-api/internal/adapters/memory/navstate"
	memregistry "github.com/tourvisto/trip-admin-api/internal/adapters/memory/registry"
	memtriprepo "github.com/tourvisto/trip-admin-api/internal/adapters/memory/triprepo"
	"github.com/tourvisto/trip-admin-api/internal/app/catalog"
	"github.com/tourvisto/trip-admin-api/internal/app/drafts"
	"github.com/tourvisto/trip-admin-api/internal/app/payments"
	"github.com/tourvisto/trip-admin-api/internal/app/pricing"
	"github.com/tourvisto/trip-admin-api/internal/app/transitions"
	"github.com/tourvisto/trip-admin-api/internal/app/trips"
	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
)

type staticCountries struct {
	countries []domain.Country
	err       error
}

func (s staticCountries) FetchCountries(context.Context) ([]domain.Country, error) {
	return s.countries, s.err
}

type testAPI struct {
	h        http.Handler
	tripRepo *memtriprepo.Repo
	registry *memregistry.Registry
	clk      *memclock.ManualClock
}

func newTestAPI(t *testing.T, opts RouterOptions) testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	tripRepo := memtriprepo.NewRepo()
	reg := memregistry.NewRegistry()
	carrier := transitions.NewCarrier(memnavstate.NewStore(clk, time.Hour))
	tripSvc := trips.NewService(tripRepo, reg, clk, sl.Discard(), nil)
	paySvc := payments.NewService(carrier, tripSvc, clk, sl.Discard(), nil, 0, time.Hour)

	builder := drafts.NewBuilder(pricing.NewEstimator(pricing.DefaultRates()))
	builder.SetImagePickerForTest(func(int) int { return 0 })

	api := NewServer(Server{
		Catalog:  catalog.NewLoader(staticCountries{countries: catalog.Fallback()}, sl.Discard(), nil),
		Drafts:   builder,
		Carrier:  carrier,
		Trips:    tripSvc,
		Payments: paySvc,
		Idem:     memidempotency.NewStore(clk, time.Hour),
		Log:      sl.Discard(),
	})
	if opts.AuthMiddleware == nil {
		opts.AuthMiddleware = NewDevAuthMiddleware("sub-test", "john.doe@example.com")
	}
	return testAPI{h: NewRouterWithOptions(api, opts), tripRepo: tripRepo, registry: reg, clk: clk}
}

func (a testAPI) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\nbody=%s", err, rec.Body.String())
	}
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status=%d want=%d body=%s", rec.Code, want, rec.Body.String())
	}
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) ErrorResponse {
	t.Helper()
	requireStatus(t, rec, wantStatus)
	er := decode[ErrorResponse](t, rec)
	if er.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", er.Error.Code, wantCode, rec.Body.String())
	}
	return er
}

func japanForm() map[string]any {
	return map[string]any{
		"country":     "Japan",
		"travelStyle": "Cultural",
		"interest":    "Food & Culinary",
		"budget":      "Mid-range",
		"duration":    5,
		"groupType":   "Couple",
	}
}

func createDraft(t *testing.T, a testAPI) DraftCreatedResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/drafts", japanForm(), nil)
	requireStatus(t, rec, http.StatusCreated)
	return decode[DraftCreatedResponse](t, rec)
}
