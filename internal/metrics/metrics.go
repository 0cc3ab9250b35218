package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitstudio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_bookings_total",
			Help: "Total number of bookings by slot kind and payment instrument",
		},
		[]string{"kind", "instrument"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_booking_cancellations_total",
			Help: "Total number of booking cancellations by slot kind",
		},
		[]string{"kind"},
	)

	MarketPurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitstudio_market_purchases_total",
			Help: "Total number of market purchases (shop and add-ons)",
		},
	)

	RefundedCreditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitstudio_refunded_credits_total",
			Help: "Total credits refunded to wallets",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitstudio_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitstudio_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitstudio_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(kind, instrument string) {
	BookingsTotal.WithLabelValues(kind, instrument).Inc()
}

func RecordBookingCancellation(kind string) {
	BookingCancellationsTotal.WithLabelValues(kind).Inc()
}

func RecordMarketPurchase() {
	MarketPurchasesTotal.Inc()
}

func RecordRefundedCredits(credits int64) {
	if credits > 0 {
		RefundedCreditsTotal.Add(float64(credits))
	}
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}
