package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Login outcome labels.
const (
	LoginOutcomeSuccess     = "success"
	LoginOutcomeInvalid     = "invalid_credentials"
	LoginOutcomeRateLimited = "rate_limited"
	LoginOutcomeError       = "error"
)

// AuthMetrics records registration and login activity.
type AuthMetrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	activityDrops prometheus.Counter
	activityDLQ   prometheus.Counter
}

// NewAuthMetrics registers the auth metrics on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Completed user registrations by role.",
	}, []string{"role"})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	activityDrops := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "activity_log_drops_total",
		Help: "Activity records dropped because the queue was full.",
	})
	activityDLQ := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "activity_log_dead_letters_total",
		Help: "Activity records diverted to the dead letter table.",
	})
	reg.MustRegister(registrations, logins, activityDrops, activityDLQ)
	return &AuthMetrics{
		registrations: registrations,
		logins:        logins,
		activityDrops: activityDrops,
		activityDLQ:   activityDLQ,
	}
}

// IncRegistration increments the registration counter for the given role.
func (a *AuthMetrics) IncRegistration(role string) {
	if a == nil || a.registrations == nil {
		return
	}
	a.registrations.WithLabelValues(normalizeLabel(role)).Inc()
}

// IncLogin increments the login counter for the given outcome.
func (a *AuthMetrics) IncLogin(outcome string) {
	if a == nil || a.logins == nil {
		return
	}
	a.logins.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncActivityDrop counts a discarded activity record.
func (a *AuthMetrics) IncActivityDrop() {
	if a == nil || a.activityDrops == nil {
		return
	}
	a.activityDrops.Inc()
}

// IncActivityDeadLetter counts an activity record written to the dead letter table.
func (a *AuthMetrics) IncActivityDeadLetter() {
	if a == nil || a.activityDLQ == nil {
		return
	}
	a.activityDLQ.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
