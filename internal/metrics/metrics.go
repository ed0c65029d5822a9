// Package metrics exposes Prometheus collectors for surface rebuilds and
// picking. Collectors work unregistered; call Register to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pick outcomes.
const (
	PickRejected   = "rejected"
	PickFastPassed = "fast_passed"
	PickHit        = "hit"
	PickBackface   = "backface"
	PickAlphaMiss  = "alpha_miss"
)

var (
	// Rebuilds counts surface geometry builds by kind and render pass.
	Rebuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "visualflats",
		Name:      "surface_rebuilds_total",
		Help:      "Floor and ceiling geometry builds.",
	}, []string{"kind", "pass"})

	// Triangles observes triangles produced per build.
	Triangles = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "visualflats",
		Name:      "surface_triangles",
		Help:      "Triangles produced by one surface build.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	// Picks counts pick predicate outcomes.
	Picks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "visualflats",
		Name:      "surface_picks_total",
		Help:      "Surface pick tests by outcome.",
	}, []string{"outcome"})

	// PendingTextures counts surfaces waiting for their flat to load.
	PendingTextures = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "visualflats",
		Name:      "surface_pending_textures",
		Help:      "Surfaces built with a placeholder awaiting reconciliation.",
	})
)

// Register adds all collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{Rebuilds, Triangles, Picks, PendingTextures} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveBuild records one surface build.
func ObserveBuild(kind, pass string, triangles int) {
	Rebuilds.WithLabelValues(kind, pass).Inc()
	Triangles.Observe(float64(triangles))
}

// ObservePick records one pick outcome.
func ObservePick(outcome string) {
	Picks.WithLabelValues(outcome).Inc()
}
