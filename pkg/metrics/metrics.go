// Package metrics registers the service's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "arena_http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arena_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "arena_http_requests_in_flight", Help: "Current in-flight requests"},
	)

	QueueEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "arena_matchmaking_enqueued_total", Help: "Queue entries created"},
		[]string{"kind"},
	)
	QueueExpired = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "arena_matchmaking_expired_total", Help: "Queue entries dropped after the TTL"},
	)
	MatchesFormed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "arena_matches_created_total", Help: "Matches created"},
		[]string{"source"},
	)
	ProcessRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "arena_matchmaking_runs_total", Help: "Matchmaking passes"},
		[]string{"result"},
	)
	ClaimConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "arena_matchmaking_claim_conflicts_total", Help: "Pairings rolled back because an entry was already claimed"},
	)
	BetsPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "arena_bets_placed_total", Help: "Bets accepted"},
	)
	WalletOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "arena_wallet_operations_total", Help: "Ledger entries by type"},
		[]string{"type"},
	)
	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "arena_ws_connections", Help: "Open notification sockets"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight)
	prometheus.MustRegister(QueueEnqueued, QueueExpired, MatchesFormed, ProcessRuns, ClaimConflicts)
	prometheus.MustRegister(BetsPlaced, WalletOps, WSConnections)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
