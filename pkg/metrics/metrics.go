// Package metrics defines Prometheus metrics for the frontdesk service,
// covering question handling, request lifecycle, expiry sweeps, notification
// delivery and mail sending.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Question handling
	QuestionsHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_questions_total",
		Help: "Total number of incoming questions, by outcome (answered or escalated)",
	}, []string{"outcome"})

	// Request lifecycle
	RequestsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_requests_created_total",
		Help: "Total number of help requests created",
	})
	RequestsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_requests_resolved_total",
		Help: "Total number of help requests resolved by a supervisor",
	})
	RequestsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_requests_expired_total",
		Help: "Total number of help requests expired by the sweeper",
	})

	// Sweeper
	SweepRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_sweep_runs_total",
		Help: "Total number of expiry sweep iterations",
	})
	SweepErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_sweep_errors_total",
		Help: "Total number of expiry sweep iterations that failed",
	})

	// Notification delivery
	NotificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_notifications_total",
		Help: "Total number of notification attempts, by channel and result",
	}, []string{"channel", "result"})

	// Mail delivery
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_mail_send_success_total",
		Help: "Total number of mails sent successfully",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_mail_send_failure_total",
		Help: "Total number of mails that could not be sent after retries",
	}, []string{"host"})

	// Audit trail
	AuditEventsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_audit_events_total",
		Help: "Total number of audit events written, by sink",
	}, []string{"sink"})
	AuditEventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_audit_events_dropped_total",
		Help: "Total number of audit events dropped because the queue was full",
	})
)

func init() {
	prometheus.MustRegister(QuestionsHandled)
	prometheus.MustRegister(RequestsCreated)
	prometheus.MustRegister(RequestsResolved)
	prometheus.MustRegister(RequestsExpired)
	prometheus.MustRegister(SweepRuns)
	prometheus.MustRegister(SweepErrors)
	prometheus.MustRegister(NotificationsSent)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(AuditEventsEmitted)
	prometheus.MustRegister(AuditEventsDropped)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
