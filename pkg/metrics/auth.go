package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registration steps recorded on the registrations counter.
const (
	StepLegacy  = "single"
	StepAccount = "step1"
	StepProfile = "step2"
)

// Outcomes shared by the auth counters.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// AuthMetrics counts registration and login outcomes.
type AuthMetrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
}

// NewAuthMetrics registers the auth counters on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mygroup_registrations_total",
		Help: "Registration attempts by step and outcome.",
	}, []string{"step", "outcome"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mygroup_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	rateLimited := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mygroup_auth_rate_limited_total",
		Help: "Auth requests rejected by the rate limiter.",
	}, []string{"policy", "scope"})
	reg.MustRegister(registrations, logins, rateLimited)
	return &AuthMetrics{
		registrations: registrations,
		logins:        logins,
		rateLimited:   rateLimited,
	}
}

// IncRegistration records one registration attempt.
func (m *AuthMetrics) IncRegistration(step, outcome string) {
	if m == nil || m.registrations == nil {
		return
	}
	m.registrations.WithLabelValues(normalizeLabel(step), normalizeLabel(outcome)).Inc()
}

// IncLogin records one login attempt.
func (m *AuthMetrics) IncLogin(outcome string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRateLimited records a request blocked by an auth rate-limit policy.
func (m *AuthMetrics) IncRateLimited(policy, scope string) {
	if m == nil || m.rateLimited == nil {
		return
	}
	m.rateLimited.WithLabelValues(normalizeLabel(policy), normalizeLabel(scope)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
