package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_orders_created_total",
			Help: "Orders created per event",
		},
		[]string{"event_id"},
	)

	orderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_order_transitions_total",
			Help: "Order status transitions by target status",
		},
		[]string{"status"},
	)

	optimisticConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_optimistic_conflicts_total",
			Help: "Version conflicts on conditional writes",
		},
		[]string{"entity"},
	)

	seatConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_seat_assignment_conflicts_total",
			Help: "Seat assignment batches rejected because a label was taken",
		},
	)

	reservationsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_reservations_expired_total",
			Help: "Reservations released by the expiration sweep",
		},
	)

	sweepFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_sweep_failures_total",
			Help: "Reservations the expiration sweep failed to release",
		},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_sweep_duration_seconds",
			Help:    "Duration of one expiration sweep pass",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	publishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_order_event_publish_failures_total",
			Help: "Order events that could not be published",
		},
	)
)

func OrderCreated(eventID string) {
	ordersCreated.WithLabelValues(eventID).Inc()
}

func OrderTransition(status string) {
	orderTransitions.WithLabelValues(status).Inc()
}

func OptimisticConflict(entity string) {
	optimisticConflicts.WithLabelValues(entity).Inc()
}

func SeatConflict() {
	seatConflicts.Inc()
}

func ReservationsExpired(n int) {
	reservationsExpired.Add(float64(n))
}

func SweepFailure() {
	sweepFailures.Inc()
}

func ObserveSweep(d time.Duration) {
	sweepDuration.Observe(d.Seconds())
}

func PublishFailure() {
	publishFailures.Inc()
}
