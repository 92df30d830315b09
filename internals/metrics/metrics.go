// internals/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schoolhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	BulkImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_bulk_import_rows_total",
			Help: "Bulk import rows by outcome",
		},
		[]string{"entity", "outcome"},
	)

	PayrollGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_payroll_records_total",
			Help: "Payroll generation outcomes",
		},
		[]string{"outcome"},
	)

	AdmissionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_admission_transitions_total",
			Help: "Admission application status transitions",
		},
		[]string{"status"},
	)

	PaymentNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schoolhub_payment_notifications_total",
			Help: "Payment gateway notifications by result",
		},
		[]string{"result"},
	)
)
