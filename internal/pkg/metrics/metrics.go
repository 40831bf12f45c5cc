/*
Package metrics registers the server's Prometheus instrumentation and exposes
the scrape handler. These counters are operational telemetry; the dashboard
broadcast channel has its own pushed metric set and does not read from here.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive tracks currently admitted transport connections.
	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shutterchat_connections_active",
		Help: "Current number of live connections in the registry",
	})

	// ConnectionsAdmitted counts successful handshakes.
	ConnectionsAdmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shutterchat_connections_admitted_total",
		Help: "Total number of connections admitted by the registry",
	})

	// HandshakesRejected counts failed handshakes (bad or expired tokens).
	HandshakesRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shutterchat_handshakes_rejected_total",
		Help: "Total number of handshakes rejected with AuthRejected",
	})

	// MessagesRouted counts routed messages by per-recipient outcome.
	MessagesRouted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shutterchat_messages_routed_total",
		Help: "Total per-recipient delivery attempts by outcome (live, queued)",
	}, []string{"outcome"})

	// DeliveriesPending tracks records currently sitting in the delivery queue.
	DeliveriesPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shutterchat_deliveries_pending",
		Help: "Delivery records awaiting drain or acknowledgment",
	})

	// AcksTotal counts acknowledged deliveries.
	AcksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shutterchat_acks_total",
		Help: "Total acknowledged delivery records",
	})

	// DashboardBroadcasts counts dashboard pushes by kind (snapshot, alert).
	DashboardBroadcasts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shutterchat_dashboard_broadcasts_total",
		Help: "Total dashboard broadcasts by kind",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(
		ConnectionsActive,
		ConnectionsAdmitted,
		HandshakesRejected,
		MessagesRouted,
		DeliveriesPending,
		AcksTotal,
		DashboardBroadcasts,
	)
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
