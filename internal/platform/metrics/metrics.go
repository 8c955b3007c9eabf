// Package metrics defines the Prometheus collectors exported by the API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trip_admin"

// Metrics is safe to use through a nil pointer; every recorder is then a no-op.
type Metrics struct {
	catalogFallbacks prometheus.Counter
	draftsBuilt      prometheus.Counter
	tripSaves        *prometheus.CounterVec
	registryRemovals prometheus.Counter
	payments         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		catalogFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fallbacks_total",
			Help:      "Country catalog loads served from the built-in fallback list.",
		}),
		draftsBuilt: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_built_total",
			Help:      "Trip drafts built from a valid form.",
		}),
		tripSaves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trip_saves_total",
			Help:      "Drafts saved to the dashboard, by whether the trip store accepted them.",
		}, []string{"persisted"}),
		registryRemovals: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_removals_total",
			Help:      "Dashboard entries removed. Deletes of unknown ids are not counted.",
		}),
		payments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Simulated payment sessions by resulting state.",
		}, []string{"state"}),
	}
}

func (m *Metrics) CatalogFallback() {
	if m == nil {
		return
	}
	m.catalogFallbacks.Inc()
}

func (m *Metrics) DraftBuilt() {
	if m == nil {
		return
	}
	m.draftsBuilt.Inc()
}

func (m *Metrics) TripSaved(persisted bool) {
	if m == nil {
		return
	}
	m.tripSaves.WithLabelValues(strconv.FormatBool(persisted)).Inc()
}

func (m *Metrics) RegistryRemoval() {
	if m == nil {
		return
	}
	m.registryRemovals.Inc()
}

func (m *Metrics) Payment(state string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(state).Inc()
}
