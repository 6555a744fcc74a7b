package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of in-flight HTTP requests",
		},
	)

	leadsCaptured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "growth_leads_captured_total",
			Help: "Leads captured through the public form",
		},
	)

	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "growth_bookings_created_total",
			Help: "Coaching calls booked",
		},
	)

	couponsRedeemed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "growth_coupons_redeemed_total",
			Help: "Checkouts that applied a coupon",
		},
	)

	subscriptionsActivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "growth_subscriptions_activated_total",
			Help: "Subscriptions activated by a payment webhook",
		},
	)

	paywallDenials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "growth_paywall_denials_total",
			Help: "Lesson views refused by the monthly limit",
		},
	)

	publishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "growth_queue_publish_failures_total",
			Help: "Events that could not be published to RabbitMQ",
		},
		[]string{"event"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics labels by chi route pattern so path parameters do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordLeadCaptured()          { leadsCaptured.Inc() }
func RecordBookingCreated()        { bookingsCreated.Inc() }
func RecordCouponRedeemed()        { couponsRedeemed.Inc() }
func RecordSubscriptionActivated() { subscriptionsActivated.Inc() }
func RecordPaywallDenial()         { paywallDenials.Inc() }

type publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// CountingPublisher counts failed publishes per event type.
type CountingPublisher struct {
	Next publisher
}

func (p CountingPublisher) Publish(ctx context.Context, eventType string, data any) error {
	err := p.Next.Publish(ctx, eventType, data)
	if err != nil {
		publishFailures.WithLabelValues(eventType).Inc()
	}
	return err
}
