package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhookRequests counts /callback requests by outcome.
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linebot_webhook_requests_total",
			Help: "Webhook requests by outcome (ok, bad_signature, malformed, missing_signature, read_error)",
		},
		[]string{"outcome"},
	)

	// EventsHandled counts individual webhook events by result.
	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linebot_events_total",
			Help: "Webhook events by result (replied, skipped, reply_failed, panic)",
		},
		[]string{"result"},
	)

	// WalletsCreated counts successful custodial wallet creations.
	WalletsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linebot_wallets_created_total",
			Help: "Custodial wallets created",
		},
	)
)

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
