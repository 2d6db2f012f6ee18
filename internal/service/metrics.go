package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics records pipeline outcomes.
type GenerationMetrics struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
	files    prometheus.Histogram
}

// NewGenerationMetrics registers the pipeline collectors on reg.
func NewGenerationMetrics(reg prometheus.Registerer) (*GenerationMetrics, error) {
	m := &GenerationMetrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screenshop_generations_total",
				Help: "Generation requests by outcome code.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screenshop_generation_duration_seconds",
			Help:    "End-to-end generation latency including the model call.",
			Buckets: []float64{1, 5, 10, 20, 30, 45, 60, 90, 120, 180, 300},
		}),
		files: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screenshop_generated_files",
			Help:    "Files in each successful merged result.",
			Buckets: prometheus.LinearBuckets(10, 5, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.outcomes, m.duration, m.files} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *GenerationMetrics) count(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *GenerationMetrics) observe(outcome string, seconds float64, files int) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
	if files > 0 {
		m.files.Observe(float64(files))
	}
}
