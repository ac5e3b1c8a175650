package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Country cache metrics
	CountryCacheHits   prometheus.Counter
	CountryCacheMisses *prometheus.CounterVec // reason: "miss" or "stale"
	StaleServed        prometheus.Counter
	GenerationLatency  prometheus.Histogram
	GenerationErrors   prometheus.Counter

	// Audio asset metrics
	AudioSynthLatency    prometheus.Histogram
	AudioPointerHits     prometheus.Counter
	AudioPersistFailures prometheus.Counter

	// Recommendation cache metrics
	RecommendationHits   prometheus.Counter
	RecommendationMisses prometheus.Counter
}

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		CountryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripatlas_country_cache_hits_total",
			Help: "Guide requests served from cache without a generator call",
		}),
		CountryCacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tripatlas_country_cache_misses_total",
			Help: "Guide requests that triggered generation, by reason",
		}, []string{"reason"}), // "miss" (no record) or "stale" (expired record)
		StaleServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripatlas_country_stale_served_total",
			Help: "Expired guide records served because regeneration failed",
		}),
		GenerationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripatlas_generation_duration_seconds",
			Help:    "Guide generation latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60}, // LLM calls are slow
		}),
		GenerationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripatlas_generation_errors_total",
			Help: "Generator calls that failed or returned invalid output",
		}),
		AudioSynthLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripatlas_audio_synth_duration_seconds",
			Help:    "Audio synthesis latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		AudioPointerHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripatlas_audio_pointer_hits_total",
			Help: "Audio requests served by fetching an existing durable URL",
		}),
		AudioPersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripatlas_audio_persist_failures_total",
			Help: "Audio blob persistence or pointer backfill failures (non-fatal)",
		}),
		RecommendationHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripatlas_recommendation_cache_hits_total",
			Help: "Recommendation requests served from the cached set",
		}),
		RecommendationMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripatlas_recommendation_cache_misses_total",
			Help: "Recommendation requests that triggered regeneration",
		}),
	}

	return metrics
}

// Services tolerate a nil *Metrics so tests don't register collectors.

func (m *Metrics) recordCountryHit() {
	if m != nil {
		m.CountryCacheHits.Inc()
	}
}

func (m *Metrics) recordCountryMiss(reason string) {
	if m != nil {
		m.CountryCacheMisses.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) recordStaleServed() {
	if m != nil {
		m.StaleServed.Inc()
	}
}

func (m *Metrics) recordGenerationLatency(seconds float64) {
	if m != nil {
		m.GenerationLatency.Observe(seconds)
	}
}

func (m *Metrics) recordGenerationError() {
	if m != nil {
		m.GenerationErrors.Inc()
	}
}

func (m *Metrics) recordAudioSynthLatency(seconds float64) {
	if m != nil {
		m.AudioSynthLatency.Observe(seconds)
	}
}

func (m *Metrics) recordAudioPointerHit() {
	if m != nil {
		m.AudioPointerHits.Inc()
	}
}

func (m *Metrics) recordAudioPersistFailure() {
	if m != nil {
		m.AudioPersistFailures.Inc()
	}
}

func (m *Metrics) recordRecommendationHit() {
	if m != nil {
		m.RecommendationHits.Inc()
	}
}

func (m *Metrics) recordRecommendationMiss() {
	if m != nil {
		m.RecommendationMisses.Inc()
	}
}
