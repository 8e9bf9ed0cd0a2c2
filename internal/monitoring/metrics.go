package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_created_total",
			Help: "Registrations created, by type",
		},
		[]string{"type"},
	)

	registrationsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrations_cancelled_total",
			Help: "Registrations cancelled by their owner",
		},
	)

	waitlistPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_promotions_total",
			Help: "Waitlisted registrations promoted to confirmed",
		},
	)

	eventStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_status_changes_total",
			Help: "Event lifecycle transitions, by target status",
		},
		[]string{"status"},
	)

	emailFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_dispatch_failures_total",
			Help: "Fire-and-forget email sends that failed, by template",
		},
		[]string{"template"},
	)
)

func RegistrationCreated(regType string) {
	registrationsCreated.WithLabelValues(regType).Inc()
}

func RegistrationCancelled() {
	registrationsCancelled.Inc()
}

func WaitlistPromoted() {
	waitlistPromotions.Inc()
}

func EventStatusChanged(status string) {
	eventStatusChanges.WithLabelValues(status).Inc()
}

func EmailDispatchFailed(template string) {
	emailFailures.WithLabelValues(template).Inc()
}
