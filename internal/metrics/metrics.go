// Package metrics provides Prometheus collectors for the card pipeline.
//
// A nil *Collectors is valid and records nothing, so callers never need to
// guard metric calls.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "leaguecard"

// Card results.
const (
	ResultOK            = "ok"
	ResultBadRequest    = "bad_request"
	ResultUpstreamError = "upstream_error"
	ResultInternalError = "internal_error"
)

// Collectors groups every metric the service exports.
type Collectors struct {
	riotRequests  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	cards         *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		riotRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "riot_requests_total",
			Help:      "Riot API requests by endpoint and HTTP status code (0 on transport failure).",
		}, []string{"endpoint", "code"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each card pipeline stage.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"stage"}),
		cards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_total",
			Help:      "Card requests by result.",
		}, []string{"result"}),
	}

	for _, col := range []prometheus.Collector{c.riotRequests, c.stageDuration, c.cards} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RiotRequest counts one completed Riot API call.
func (c *Collectors) RiotRequest(endpoint string, statusCode int) {
	if c == nil {
		return
	}
	c.riotRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// Stage records how long a pipeline stage took.
func (c *Collectors) Stage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Card counts one finished card request.
func (c *Collectors) Card(result string) {
	if c == nil {
		return
	}
	c.cards.WithLabelValues(result).Inc()
}
