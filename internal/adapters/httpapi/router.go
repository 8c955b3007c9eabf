package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// AuthMiddleware guards every route except /healthz and /metrics. Nil leaves routes open.
	AuthMiddleware func(http.Handler) http.Handler
	// RateLimit, when set, runs after auth.
	RateLimit func(http.Handler) http.Handler
	// Metrics is served at /metrics when set.
	Metrics http.Handler
}

// NewRouter constructs the API HTTP router without auth.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewRequestLogger(s.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		r.Get("/countries", s.ListCountries)
		r.Get("/form-options", s.GetFormOptions)

		r.Post("/drafts", s.CreateDraft)
		r.Get("/drafts/{transitionId}", s.GetDraft)
		r.Get("/drafts/{transitionId}/form", s.GetDraftForm)
		r.Post(saveRoute, s.SaveDraft)

		r.Get("/trips", s.ListTrips)
		r.Get("/trips/{tripId}", s.GetTrip)

		r.Get("/dashboard", s.GetDashboard)
		r.Delete("/dashboard/trips/{id}", s.RemoveDashboardTrip)

		r.Post("/payments", s.BeginPayment)
		r.Get("/payments/success/{transitionId}", s.GetPaymentSuccess)
		r.Get("/payments/{paymentId}", s.GetPayment)
		r.Post("/payments/{paymentId}/submit", s.SubmitPayment)
	})
	return r
}
