package itest

import (
	"net/http"
	"testing"

	"github.com/tourvisto/trip-admin-api/internal/adapters/httpapi"
)

var admin = actor{subject: "admin-1", email: "maria.garcia@example.com"}

func TestTripFlow_DraftSavePay(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b)

			status, body, _ := srv.doJSON(t, http.MethodGet, "/countries", admin, nil, nil)
			requireStatus(t, status, body, http.StatusOK)
			countries := mustUnmarshal[httpapi.CountriesResponse](t, body)
			if len(countries.Countries) != 5 {
				t.Fatalf("expected fallback catalog, got %d countries", len(countries.Countries))
			}

			form := map[string]any{
				"country":     "Italy",
				"travelStyle": "Luxury",
				"interest":    "Museums & Art",
				"budget":      "Luxury",
				"duration":    3,
				"groupType":   "Friends",
			}
			status, body, _ = srv.doJSON(t, http.MethodPost, "/drafts", admin, form, nil)
			requireStatus(t, status, body, http.StatusCreated)
			created := mustUnmarshal[httpapi.DraftCreatedResponse](t, body)
			if created.Draft.EstimatedPrice != "$300" || created.Draft.Name != "Italy Luxury Adventure" {
				t.Fatalf("draft=%+v", created.Draft)
			}

			save := "/drafts/" + created.TransitionId + "/save"
			hdr := map[string]string{"Idempotency-Key": "itest-save"}
			status, body, _ = srv.doJSON(t, http.MethodPost, save, admin, nil, hdr)
			requireStatus(t, status, body, http.StatusCreated)
			saved := mustUnmarshal[httpapi.SaveDraftResponse](t, body)
			if !saved.Persisted || saved.Trip == nil {
				t.Fatalf("saved=%+v", saved)
			}

			status, body, h := srv.doJSON(t, http.MethodPost, save, admin, nil, hdr)
			requireStatus(t, status, body, http.StatusCreated)
			requireHeaderPresent(t, h, "Idempotent-Replayed")

			status, body, _ = srv.doJSON(t, http.MethodGet, "/trips/"+string(saved.Trip.ID), admin, nil, nil)
			requireStatus(t, status, body, http.StatusOK)
			got := mustUnmarshal[httpapi.TripResponse](t, body)
			if got.Trip.Location.Coordinates[0] != 42 || len(got.Trip.Itinerary) != 3 {
				t.Fatalf("trip=%+v", got.Trip)
			}

			status, body, _ = srv.doJSON(t, http.MethodGet, "/trips?limit=1", admin, nil, nil)
			requireStatus(t, status, body, http.StatusOK)
			page := mustUnmarshal[httpapi.TripsPageResponse](t, body)
			if page.Total != 1 || len(page.Trips) != 1 {
				t.Fatalf("page=%+v", page)
			}

			status, body, _ = srv.doJSON(t, http.MethodGet, "/dashboard", admin, nil, nil)
			requireStatus(t, status, body, http.StatusOK)
			dash := mustUnmarshal[httpapi.DashboardResponse](t, body)
			if dash.Greeting != "Maria Garcia" || len(dash.Trips) != 1 {
				t.Fatalf("dashboard=%+v", dash)
			}

			status, body, _ = srv.doJSON(t, http.MethodPost, "/payments", admin, httpapi.BeginPaymentRequest{TripId: string(saved.Trip.ID)}, nil)
			requireStatus(t, status, body, http.StatusCreated)
			pay := mustUnmarshal[httpapi.PaymentView](t, body)

			card := map[string]any{
				"cardNumber":     "4111111111111111",
				"expiryDate":     "12/29",
				"cvv":            "999",
				"cardholderName": "Maria Garcia",
				"email":          "maria.garcia@example.com",
				"country":        "Italy",
				"zip":            "00100",
			}
			status, body, _ = srv.doJSON(t, http.MethodPost, "/payments/"+pay.PaymentId+"/submit", admin, card, nil)
			requireStatus(t, status, body, http.StatusOK)
			done := mustUnmarshal[httpapi.PaymentView](t, body)

			status, body, _ = srv.doJSON(t, http.MethodGet, "/payments/success/"+done.SuccessTransitionId, admin, nil, nil)
			requireStatus(t, status, body, http.StatusOK)
			success := mustUnmarshal[httpapi.PaymentSuccessView](t, body)
			if !success.Found || success.PaymentAmount != "$300" {
				t.Fatalf("success=%+v", success)
			}
		})
	}
}

func TestTripFlow_RequiresSubject(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b)

			status, body, _ := srv.doJSON(t, http.MethodGet, "/trips", actor{}, nil, nil)
			er := requireErrorCode(t, status, body, http.StatusUnauthorized, "UNAUTHORIZED")
			if er.Error.RequestID == "" {
				t.Fatalf("expected requestId")
			}

			status, body, _ = srv.doJSON(t, http.MethodGet, "/healthz", actor{}, nil, nil)
			requireStatus(t, status, body, http.StatusOK)
		})
	}
}

func TestTripFlow_UnknownIDs(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b)

			status, body, _ := srv.doJSON(t, http.MethodGet, "/trips/00000000-0000-0000-0000-000000000000", admin, nil, nil)
			requireErrorCode(t, status, body, http.StatusNotFound, "TRIP_NOT_FOUND")

			status, body, _ = srv.doJSON(t, http.MethodGet, "/drafts/missing/form", admin, nil, nil)
			requireErrorCode(t, status, body, http.StatusNotFound, "TRIP_DATA_NOT_FOUND")

			status, body, _ = srv.doJSON(t, http.MethodPost, "/payments", admin, httpapi.BeginPaymentRequest{TripId: "not-a-uuid"}, nil)
			er := requireErrorCode(t, status, body, http.StatusNotFound, "TRIP_NOT_FOUND")
			if id, _ := er.Error.Details["paymentId"].(string); id == "" {
				t.Fatalf("expected paymentId detail, got %v", er.Error.Details)
			}
		})
	}
}
