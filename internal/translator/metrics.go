// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Path labels of translations_total.
const (
	PathAI       = "ai"
	PathFallback = "fallback"
)

// Metrics holds the translator's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	translations  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	aiFailures    *prometheus.CounterVec
}

// NewMetrics registers the translator collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		translations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Completed translations labelled by path and item type.",
		}, []string{"path", "item_type"}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "translation_stage_seconds",
			Help:    "Time spent in each translation stage.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30},
		}, []string{"stage"}),
		aiFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_stage_failures_total",
			Help: "AI stage failures that routed a translation to the fallback path.",
		}, []string{"stage", "provider"}),
	}
}

func (m *Metrics) observeStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) countTranslation(path, itemType string) {
	if m == nil {
		return
	}
	m.translations.WithLabelValues(path, itemType).Inc()
}

func (m *Metrics) countAIFailure(stage, provider string) {
	if m == nil {
		return
	}
	m.aiFailures.WithLabelValues(stage, provider).Inc()
}
