package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal       metric.Int64Counter
	HTTPRequestDuration     metric.Float64Histogram
	BehaviorsTrackedTotal   metric.Int64Counter
	FeedbackSubmittedTotal  metric.Int64Counter
	InsightsGeneratedTotal  metric.Int64Counter
	ScoreComputationsTotal  metric.Int64Counter
	ScoreCacheHitsTotal     metric.Int64Counter
	DBQueryDurationSeconds  metric.Float64Histogram
	DBQueryErrorsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tripwise")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.BehaviorsTrackedTotal, err = meter.Int64Counter(
			"behaviors_tracked_total",
			metric.WithDescription("Total number of behavior records written"),
			metric.WithUnit("{record}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create behaviors_tracked_total: %v", err)
		}

		m.FeedbackSubmittedTotal, err = meter.Int64Counter(
			"feedback_submitted_total",
			metric.WithDescription("Total number of feedback records written"),
			metric.WithUnit("{record}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create feedback_submitted_total: %v", err)
		}

		m.InsightsGeneratedTotal, err = meter.Int64Counter(
			"insights_generated_total",
			metric.WithDescription("Total number of insights written by the analyzers"),
			metric.WithUnit("{insight}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create insights_generated_total: %v", err)
		}

		m.ScoreComputationsTotal, err = meter.Int64Counter(
			"intelligence_score_computations_total",
			metric.WithDescription("Total number of intelligence score computations"),
			metric.WithUnit("{computation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create intelligence_score_computations_total: %v", err)
		}

		m.ScoreCacheHitsTotal, err = meter.Int64Counter(
			"intelligence_score_cache_hits_total",
			metric.WithDescription("Total number of intelligence score cache hits"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create intelligence_score_cache_hits_total: %v", err)
		}

		m.DBQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. It is nil until
// InitAppMetrics has run.
func Get() *AppMetrics {
	return appMetrics
}
