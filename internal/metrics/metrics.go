// Package metrics exposes Prometheus collectors for the outreach service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapeRunsTotal            *prometheus.CounterVec
	scrapedProfilesTotal       *prometheus.CounterVec
	scrapePagesTotal           prometheus.Counter
	llmRequestsTotal           *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapeRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_scrape_runs_total",
				Help: "Total number of scrape runs, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scrapedProfilesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_scraped_profiles_total",
				Help: "Total number of profiles returned by scrape runs, labeled by freshness.",
			},
			[]string{"freshness"},
		)

		scrapePagesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_scrape_pages_total",
				Help: "Total number of search result pages visited.",
			},
		)

		llmRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_llm_requests_total",
				Help: "Total number of message drafting requests, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrapeRun increments the run counter for the given outcome.
func ObserveScrapeRun(outcome string) {
	scrapeRunsTotal.WithLabelValues(outcome).Inc()
}

// ObserveScrapedProfile counts one profile in a scrape result. Freshness is
// "new" for freshly persisted records and "existing" for dedup hits.
func ObserveScrapedProfile(freshness string) {
	scrapedProfilesTotal.WithLabelValues(freshness).Inc()
}

// ObserveScrapePage counts one visited search results page.
func ObserveScrapePage() {
	scrapePagesTotal.Inc()
}

// ObserveLLMRequest increments the drafting request counter.
func ObserveLLMRequest(outcome string) {
	llmRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
