package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docbooking_bookings_total",
		Help: "Appointments successfully booked.",
	})

	BookingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docbooking_booking_conflicts_total",
		Help: "Booking attempts that lost the slot to a concurrent booking.",
	})

	PaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docbooking_payments_total",
		Help: "Appointments marked as paid.",
	})

	CancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docbooking_cancellations_total",
		Help: "Appointments cancelled.",
	})

	ConsistencyFaultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docbooking_consistency_faults_total",
		Help: "Ledger/store disagreements detected during cancels or sweeps.",
	})
)
