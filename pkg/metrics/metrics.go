// Package metrics defines the Prometheus metric collectors for the search
// engine and exposes an HTTP handler for scraping. Starting a server to
// serve that handler is left to the caller -- this package only registers
// collectors and hands back the handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector the engine updates.
type Metrics struct {
	SourcesRegisteredTotal prometheus.Counter
	SourceBytesTotal       prometheus.Counter
	WordsIndexedTotal      prometheus.Counter
	SearchQueriesTotal     *prometheus.CounterVec
	SearchLatency          *prometheus.HistogramVec
	SearchResultsCount     prometheus.Histogram
	CacheHitsTotal         prometheus.Counter
	CacheMissesTotal       prometheus.Counter
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		SourcesRegisteredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_sources_registered_total",
				Help: "Total sources successfully registered.",
			},
		),
		SourceBytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_source_bytes_total",
				Help: "Total bytes across all registered sources.",
			},
		),
		WordsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_words_indexed_total",
				Help: "Total word records merged into the word index.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textsearch_search_queries_total",
				Help: "Total Search calls by mode (full_scan, hybrid, too_short).",
			},
			[]string{"mode"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textsearch_search_latency_seconds",
				Help:    "Search call latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "textsearch_search_results_count",
				Help:    "Number of sources with at least one match per Search call.",
				Buckets: []float64{0, 1, 2, 5, 10, 25},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_cache_hits_total",
				Help: "Total query-cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_cache_misses_total",
				Help: "Total query-cache misses.",
			},
		),
	}

	prometheus.MustRegister(
		m.SourcesRegisteredTotal,
		m.SourceBytesTotal,
		m.WordsIndexedTotal,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler, for a caller-owned
// mux to mount; this package never listens itself.
func Handler() http.Handler {
	return promhttp.Handler()
}
