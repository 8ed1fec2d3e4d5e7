// ABOUTME: Prometheus metrics for authentication and policy decisions
// ABOUTME: Registered against an injectable registerer for test isolation

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Authentication outcomes recorded by the interceptor.
const (
	OutcomeAuthenticated  = "authenticated"
	OutcomeAnonymous      = "anonymous"
	OutcomeInvalidToken   = "invalid_token"
	OutcomeUnknownSubject = "unknown_subject"
	OutcomeStoreError     = "store_error"
)

// Metrics holds Prometheus counters for the security layer. A nil *Metrics
// is valid and records nothing, which keeps test wiring small.
type Metrics struct {
	authnTotal     *prometheus.CounterVec
	decisionsTotal *prometheus.CounterVec
}

// NewMetrics creates metrics registered with the default registerer so they
// show up on the standard /metrics endpoint.
func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates metrics against a custom registerer.
// Tests pass a private registry to avoid duplicate registration.
func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		authnTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "memberd",
				Subsystem: "auth",
				Name:      "requests_total",
				Help:      "Authentication attempts by outcome",
			},
			[]string{"outcome"},
		),
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "memberd",
				Subsystem: "authz",
				Name:      "decisions_total",
				Help:      "Access policy decisions by result",
			},
			[]string{"decision"},
		),
	}

	reg.MustRegister(m.authnTotal, m.decisionsTotal)
	return m
}

func (m *Metrics) observeAuthn(outcome string) {
	if m == nil {
		return
	}
	m.authnTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDecision(d Decision) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(d.String()).Inc()
}
