package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsCreated *prometheus.CounterVec
	TransactionsDeleted prometheus.Counter
	TransactionAmount   prometheus.Histogram

	// Transfer metrics
	TransfersCreated  prometheus.Counter
	TransfersReversed prometheus.Counter
	TransferAmount    prometheus.Histogram

	// Payment metrics
	PaymentsRecorded  *prometheus.CounterVec
	PaymentsCancelled prometheus.Counter
	SchedulesCreated  prometheus.Counter

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns   prometheus.Counter
	ReconciliationDrifts *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truno_ledger_transactions_created_total",
				Help: "Total number of ledger entries created by direction",
			},
			[]string{"direction"},
		),
		TransactionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truno_ledger_transactions_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "truno_ledger_transaction_amount",
			Help:    "Ledger entry amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truno_ledger_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransfersReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truno_ledger_transfers_reversed_total",
			Help: "Total number of transfers reversed",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "truno_ledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truno_ledger_payments_recorded_total",
				Help: "Total number of payments recorded by record kind",
			},
			[]string{"record_kind"},
		),
		PaymentsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truno_ledger_payments_cancelled_total",
			Help: "Total number of payments cancelled",
		}),
		SchedulesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truno_ledger_schedules_created_total",
			Help: "Total number of payment schedules created",
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truno_ledger_accounts_created_total",
			Help: "Total number of bank accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truno_ledger_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "truno_ledger_reconciliation_runs_total",
			Help: "Total number of reconciliation passes",
		}),
		ReconciliationDrifts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truno_ledger_reconciliation_drifts_total",
				Help: "Total drifting rows found by resource type",
			},
			[]string{"resource"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truno_ledger_http_requests_total",
				Help: "Total HTTP requests by method, path, and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "truno_ledger_http_duration_seconds",
				Help:    "HTTP request duration by method and path",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "truno_ledger_db_connections",
			Help: "Current number of database connections",
		}),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "truno_ledger_audit_logs_created_total",
				Help: "Total audit log entries by action",
			},
			[]string{"action"},
		),
	}
}
