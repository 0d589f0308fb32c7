// Package metrics exposes Prometheus instrumentation for the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments resolution outcomes. A nil *Metrics is valid and
// records nothing, so wiring stays optional.
type Metrics struct {
	resolutions    *prometheus.CounterVec
	fuzzyScore     prometheus.Histogram
	fundsCreated   prometheus.Counter
	aliasesCreated prometheus.Counter
}

// New registers the registry's collectors on the default registerer.
func New() *Metrics {
	return &Metrics{
		resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fundregistry",
			Name:      "resolutions_total",
			Help:      "Resolutions by match type.",
		}, []string{"match_type"}),
		fuzzyScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fundregistry",
			Name:      "fuzzy_match_score",
			Help:      "Token-sort similarity of accepted fuzzy matches.",
			Buckets:   []float64{0.75, 0.80, 0.85, 0.90, 0.95, 1.0},
		}),
		fundsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fundregistry",
			Name:      "funds_created_total",
			Help:      "Canonical funds created.",
		}),
		aliasesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fundregistry",
			Name:      "aliases_created_total",
			Help:      "Alias bindings created.",
		}),
	}
}

// ObserveResolution records one resolution outcome.
func (m *Metrics) ObserveResolution(matchType string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(matchType).Inc()
}

// ObserveFuzzyScore records the token-sort score of an accepted fuzzy match.
func (m *Metrics) ObserveFuzzyScore(score float64) {
	if m == nil {
		return
	}
	m.fuzzyScore.Observe(score)
}

// FundCreated counts a new canonical fund.
func (m *Metrics) FundCreated() {
	if m == nil {
		return
	}
	m.fundsCreated.Inc()
}

// AliasCreated counts a new alias binding.
func (m *Metrics) AliasCreated() {
	if m == nil {
		return
	}
	m.aliasesCreated.Inc()
}
