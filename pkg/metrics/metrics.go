package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Define global variables for metrics.
// We use 'promauto' which automatically registers metrics without complex initialization.

var (
	// 1. HTTP Requests Total (Counter)
	// Counts how many requests arrive, labeled by method, path, and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"}, // Labels
	)

	// 2. HTTP Request Duration (Histogram)
	// Measures server response time.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "flowstack_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
			// Custom buckets covering from microseconds (registry hit) to minutes (LLM generation)
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// 3. Workflow runs (Counter)
	// Outcomes: completed, rejected, canceled, failed.
	WorkflowExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_workflow_executions_total",
			Help: "Workflow runs by outcome",
		},
		[]string{"outcome"},
	)

	// 4. Node visits (Counter)
	NodeVisitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_node_visits_total",
			Help: "Node visits during workflow runs, by node kind",
		},
		[]string{"kind"},
	)

	// 5. Ingest duration (Histogram)
	// End-to-end: extract -> chunk -> embed -> store.
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowstack_ingest_duration_seconds",
			Help:    "End-to-end duration of document ingestion",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// 6. Ingest outcomes (Counter)
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_ingests_total",
			Help: "Document ingestions by outcome (processed, error)",
		},
		[]string{"outcome"},
	)

	// 7. Vector Count (Gauge)
	// Tracks the number of chunk vectors held per collection.
	TotalVectors = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowstack_vectors_total",
			Help: "Total number of indexed vectors",
		},
		[]string{"collection"},
	)
)
