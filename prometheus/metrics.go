package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "honeydew_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "honeydew_tenant_register_total",
			Help: "Total number of tenant registrations",
		},
	)

	// Client credential exchanges
	ClientTokenCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "honeydew_client_token_total",
			Help: "Total number of client credential token requests",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydew_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "multiple_tenants", "invalid_token" etc.
	)

	TodoOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydew_todo_operations_total",
			Help: "Total number of todo operations",
		},
		[]string{"operation"}, // operation can be "create", "update", "export", "vote", "unvote"
	)

	UserOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydew_user_operations_total",
			Help: "Total number of user management operations",
		},
		[]string{"operation"},
	)

	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydew_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation"},
	)

	SupportTicketCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "honeydew_support_ticket_operations_total",
			Help: "Total number of support ticket operations",
		},
		[]string{"operation"},
	)
)

// Histogram metrics
var (
	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "honeydew_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "honeydew_info",
			Help: "Information about the Honeydew service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(ClientTokenCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(TodoOperationCounter)
	prometheus.MustRegister(UserOperationCounter)
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(SupportTicketCounter)

	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// TrackDBOperation measures database operation durations.
// Use as: defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(start).Seconds())
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

func RecordTodoOperation(operation string) {
	TodoOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

func RecordUserOperation(operation string) {
	UserOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordTenantOperation records a tenant operation
func RecordTenantOperation(operation string) {
	TenantOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

func RecordSupportTicketOperation(operation string) {
	SupportTicketCounter.With(prometheus.Labels{"operation": operation}).Inc()
}
