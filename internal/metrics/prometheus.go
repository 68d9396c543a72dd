package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillmap_upstream_duration_seconds",
			Help:    "Upstream API call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	QuestionsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_questions_fetched_total",
			Help: "Total questions fetched from upstream",
		},
		[]string{"mode"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_submissions_total",
			Help: "Total answer submissions",
		},
		[]string{"status"},
	)

	RefreshFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillmap_refresh_failures_total",
			Help: "Post-submission question/progress refreshes that failed",
		},
	)

	SessionsStopped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_sessions_stopped_total",
			Help: "Sessions reaching a terminal stop signal",
		},
		[]string{"reason"},
	)

	GapAnalyses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skillmap_gap_analyses_total",
			Help: "Total skill gap analyses computed",
		},
	)

	GapOpportunities = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillmap_gap_opportunities_count",
			Help:    "Opportunities per gap report",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	MatcherFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_matcher_fallbacks_total",
			Help: "Resource matches that fell back past the relevance threshold",
		},
		[]string{"kind"},
	)

	SuggestionSource = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_suggestion_source_total",
			Help: "Which chain source served each suggestion request",
		},
		[]string{"source"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillmap_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	TypingSpeed = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillmap_typing_speed_wpm",
			Help:    "Observed typing speed on free-text answers",
			Buckets: []float64{10, 20, 40, 60, 80, 100, 150},
		},
	)
)

func Init() {
	prometheus.MustRegister(UpstreamDuration)
	prometheus.MustRegister(QuestionsFetched)
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(RefreshFailures)
	prometheus.MustRegister(SessionsStopped)
	prometheus.MustRegister(GapAnalyses)
	prometheus.MustRegister(GapOpportunities)
	prometheus.MustRegister(MatcherFallbacks)
	prometheus.MustRegister(SuggestionSource)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(TypingSpeed)
}

// ObserveUpstream records the latency of one upstream API call, measured
// from start.
func ObserveUpstream(operation string, start time.Time) {
	UpstreamDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
