// Package metrics defines Prometheus metrics for the authentication service.
//
// Metric naming follows Prometheus conventions:
//   - esg_auth_ prefix for all custom metrics
//   - _total suffix for counters
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds every metric of this service plus the Go runtime collectors.
	Registry = prometheus.NewRegistry()

	// LoginsTotal counts login attempts by role and outcome.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_auth_logins_total",
			Help: "Total login attempts by role and outcome.",
		},
		[]string{"role", "outcome"},
	)

	// SignupsTotal counts signup attempts by role and outcome.
	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_auth_signups_total",
			Help: "Total signup attempts by role and outcome.",
		},
		[]string{"role", "outcome"},
	)

	// AccountMutationsTotal counts password changes and deletions.
	AccountMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_auth_account_mutations_total",
			Help: "Total account mutations by operation, role and outcome.",
		},
		[]string{"operation", "role", "outcome"},
	)

	// TokensRejectedTotal counts bearer tokens refused by the auth middleware.
	TokensRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_auth_tokens_rejected_total",
			Help: "Total bearer tokens rejected by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		LoginsTotal,
		SignupsTotal,
		AccountMutationsTotal,
		TokensRejectedTotal,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordLogin(role, outcome string) {
	LoginsTotal.WithLabelValues(role, outcome).Inc()
}

func RecordSignup(role, outcome string) {
	SignupsTotal.WithLabelValues(role, outcome).Inc()
}

func RecordAccountMutation(operation, role, outcome string) {
	AccountMutationsTotal.WithLabelValues(operation, role, outcome).Inc()
}

func RecordTokenRejected(reason string) {
	TokensRejectedTotal.WithLabelValues(reason).Inc()
}
