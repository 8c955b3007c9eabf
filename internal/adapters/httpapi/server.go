package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tourvisto/trip-admin-api/internal/app/catalog"
	"github.com/tourvisto/trip-admin-api/internal/app/drafts"
	"github.com/tourvisto/trip-admin-api/internal/app/payments"
	"github.com/tourvisto/trip-admin-api/internal/app/transitions"
	"github.com/tourvisto/trip-admin-api/internal/app/trips"
	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/platform/metrics"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/idempotency"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/navstate"
)

const saveRoute = "/drafts/{transitionId}/save"

// Server holds the handlers. Idem and Metrics may be nil.
type Server struct {
	Catalog  *catalog.Loader
	Drafts   *drafts.Builder
	Carrier  *transitions.Carrier
	Trips    *trips.Service
	Payments *payments.Service
	Idem     idempotency.Store
	Metrics  *metrics.Metrics
	Log      *slog.Logger

	validate *validator.Validate
}

type listParams struct {
	Limit  int `validate:"min=0,max=200"`
	Offset int `validate:"min=0"`
}

func NewServer(s Server) *Server {
	if s.Log == nil {
		s.Log = sl.Discard()
	}
	s.validate = validator.New()
	return &s
}

func (s *Server) ListCountries(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, CountriesResponse{Countries: s.Catalog.Load(r.Context())})
}

func (s *Server) GetFormOptions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, drafts.Options())
}

func (s *Server) CreateDraft(w http.ResponseWriter, r *http.Request) {
	const op = "httpapi.CreateDraft"

	var form domain.FormFields
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}

	// Validate before the catalog fetch so a bad form never reaches the country API.
	if err := drafts.Validate(domain.NormalizeForm(form)); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	draft, err := s.Drafts.Build(form, s.Catalog.Load(r.Context()))
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	s.Metrics.DraftBuilt()

	id, err := s.Carrier.Send(r.Context(), navstate.Payload{Draft: &draft, IsNewTrip: true})
	if err != nil {
		s.Log.Error("failed to hand off draft", slog.String("op", op), sl.Err(err))
		writeAppError(w, r, s.Log, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, DraftCreatedResponse{TransitionId: string(id), Draft: draft})
}

// receiveDraft writes the 404 itself when the transition carries no trip.
func (s *Server) receiveDraft(w http.ResponseWriter, r *http.Request) (domain.TransitionID, navstate.Payload, domain.TripDraft, bool) {
	var id string
	if err := runtime.BindStyledParameterWithOptions("simple", "transitionId", chi.URLParam(r, "transitionId"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid transitionId", nil)
		return "", navstate.Payload{}, domain.TripDraft{}, false
	}

	p, ok, err := s.Carrier.Receive(r.Context(), domain.TransitionID(id))
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return "", navstate.Payload{}, domain.TripDraft{}, false
	}
	d, hasDraft := p.TripDraft()
	if !ok || !hasDraft {
		writeError(w, r, http.StatusNotFound, "TRIP_DATA_NOT_FOUND", "no trip data found", nil)
		return "", navstate.Payload{}, domain.TripDraft{}, false
	}
	return domain.TransitionID(id), p, d, true
}

func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, p, d, ok := s.receiveDraft(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, DraftView{TransitionId: string(id), Draft: d, IsNewTrip: p.IsNewTrip, IsEditing: p.IsEditing})
}

func (s *Server) GetDraftForm(w http.ResponseWriter, r *http.Request) {
	id, _, d, ok := s.receiveDraft(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, DraftFormView{
		TransitionId: string(id),
		IsEditing:    true,
		Form:         drafts.FormFromDraft(d),
		Options:      drafts.Options(),
	})
}

func (s *Server) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id, _, d, ok := s.receiveDraft(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	// Idempotency handling:
	// - Replay if same actor+key+route+bodyHash
	// - Reject if same actor+key+route with different bodyHash (409)
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	var respFP idempotency.Fingerprint
	if s.Idem != nil && key != "" {
		principal, _ := PrincipalFromContext(ctx)
		bodyHash, err := hashSaveBody(id, d)
		if err != nil {
			writeAppError(w, r, s.Log, err)
			return
		}
		metaFP := idempotency.Fingerprint{
			Key:      idempotency.Key(key),
			Subject:  domain.SubjectID(principal.Subject),
			Method:   http.MethodPost,
			Route:    saveRoute,
			BodyHash: "",
		}
		if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
			writeAppError(w, r, s.Log, err)
			return
		} else if ok {
			if string(meta.Body) != bodyHash {
				writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
				return
			}
		} else {
			_ = s.Idem.Put(ctx, metaFP, idempotency.Record{
				StatusCode:  0,
				ContentType: "text/plain",
				Body:        []byte(bodyHash),
			})
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
			writeAppError(w, r, s.Log, err)
			return
		} else if ok && rec.StatusCode == http.StatusCreated && strings.HasPrefix(rec.ContentType, "application/json") {
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	res, err := s.Trips.SaveDraft(ctx, d)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	resp := SaveDraftResponse{Entry: res.Entry, Trip: res.Trip, Persisted: res.Persisted, Message: res.Message}

	if s.Idem != nil && key != "" {
		if b, err := json.Marshal(resp); err == nil {
			_ = s.Idem.Put(ctx, respFP, idempotency.Record{
				StatusCode:  http.StatusCreated,
				ContentType: "application/json",
				Body:        b,
			})
		}
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var p listParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid limit", nil)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", q, &p.Offset); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid offset", nil)
		return
	}
	if err := s.validate.Struct(p); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid pagination", map[string]any{"limit": "0..200", "offset": ">= 0"})
		return
	}

	page := s.Trips.LoadTripsPage(r.Context(), p.Limit, p.Offset)
	render.JSON(w, r, TripsPageResponse{Trips: page.Trips, Total: page.Total, Limit: page.Limit, Offset: page.Offset})
}

func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := runtime.BindStyledParameterWithOptions("simple", "tripId", chi.URLParam(r, "tripId"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid tripId", nil)
		return
	}
	t, err := s.Trips.GetTrip(r.Context(), domain.TripID(id))
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	render.JSON(w, r, TripResponse{Trip: t})
}

func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	dash, err := s.Trips.Dashboard(r.Context(), principal.Email)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	render.JSON(w, r, DashboardResponse{Greeting: dash.Greeting, Trips: dash.Trips})
}

func (s *Server) RemoveDashboardTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.Trips.RemoveFromDashboard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) BeginPayment(w http.ResponseWriter, r *http.Request) {
	var req BeginPaymentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	sess, err := s.Payments.Begin(r.Context(), payments.Source{
		TransitionID: domain.TransitionID(strings.TrimSpace(req.TransitionId)),
		TripID:       domain.TripID(strings.TrimSpace(req.TripId)),
	})
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	if sess.State == payments.StateNoTrip {
		writeError(w, r, http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found", map[string]any{"paymentId": string(sess.ID)})
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, paymentViewFromSession(sess))
}

func (s *Server) GetPayment(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Payments.Get(r.Context(), domain.PaymentID(chi.URLParam(r, "paymentId")))
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	render.JSON(w, r, paymentViewFromSession(sess))
}

func (s *Server) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req SubmitPaymentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, openapi_types.ErrValidationEmail) {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid payment details", map[string]any{"email": "failed email"})
			return
		}
		writeError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	sess, err := s.Payments.Submit(r.Context(), domain.PaymentID(chi.URLParam(r, "paymentId")), req.cardDetails())
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	render.JSON(w, r, paymentViewFromSession(sess))
}

func (s *Server) GetPaymentSuccess(w http.ResponseWriter, r *http.Request) {
	view, err := s.Payments.Success(r.Context(), domain.TransitionID(chi.URLParam(r, "transitionId")))
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	render.JSON(w, r, PaymentSuccessView{
		Title:         view.Title,
		Found:         view.Found,
		Draft:         view.Draft,
		PaymentAmount: view.PaymentAmount,
	})
}

func hashSaveBody(id domain.TransitionID, d domain.TripDraft) (string, error) {
	raw, err := json.Marshal(struct {
		TransitionID domain.TransitionID `json:"transitionId"`
		Draft        domain.TripDraft    `json:"draft"`
	}{id, d})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
