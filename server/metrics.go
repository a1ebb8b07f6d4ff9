package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/navigation"
)

// Metrics counts requests, recognized gestures and votes.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gestures *prometheus.CounterVec
	votes    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dogfinder_rpc_requests_total",
				Help: "Total number of JSON-RPC requests",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dogfinder_rpc_duration_seconds",
				Help: "Duration of JSON-RPC method calls",
			},
			[]string{"method"},
		),
		gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dogfinder_gestures_total",
				Help: "Total number of completed gestures by direction",
			},
			[]string{"direction"},
		),
		votes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dogfinder_votes_total",
				Help: "Total number of votes by value",
			},
			[]string{"value"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.gestures, m.votes)
	return m
}

func (m *Metrics) ObserveRequest(method, status string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, status).Inc()
	if elapsed > 0 {
		m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

// ObserveResult counts the gesture and vote carried by a handler result, if any.
func (m *Metrics) ObserveResult(result interface{}) {
	switch r := result.(type) {
	case *commands.GestureResult:
		m.gestures.WithLabelValues(r.Direction).Inc()
		if r.Vote != nil {
			m.observeVote(r.Vote)
		}
	case *navigation.VoteResult:
		m.observeVote(r)
	}
}

func (m *Metrics) observeVote(v *navigation.VoteResult) {
	m.votes.WithLabelValues(v.Vote).Inc()
}
