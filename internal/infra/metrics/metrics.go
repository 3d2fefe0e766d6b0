// Package metrics exposes the outreach domain counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_messages_sent_total",
			Help: "Total number of outreach messages attempted",
		},
		[]string{"channel", "template", "status"},
	)

	rateLimitSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_rate_limit_skips_total",
			Help: "Sends skipped because the hourly channel limit was reached",
		},
		[]string{"channel"},
	)

	repliesSeen = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_replies_total",
			Help: "Inbound replies by classification",
		},
		[]string{"channel", "type"},
	)

	leadsCaptured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_leads_captured_total",
			Help: "Leads appended to the store via the capture endpoint",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

func RecordMessageSent(channel, template, status string) {
	messagesSent.WithLabelValues(channel, template, status).Inc()
}

func RecordRateLimitSkip(channel string) {
	rateLimitSkips.WithLabelValues(channel).Inc()
}

func RecordReply(channel, replyType string) {
	repliesSeen.WithLabelValues(channel, replyType).Inc()
}

func RecordLeadCaptured() {
	leadsCaptured.Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
