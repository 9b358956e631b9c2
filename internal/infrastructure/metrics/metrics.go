package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/homeledger/internal/domain"
)

// Reconstruction outcomes.
const (
	OutcomeKnown     = "known"
	OutcomeUnknown   = "unknown"
	OutcomeTruncated = "truncated"
	OutcomeOverflow  = "overflow"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Recorder metrics
	TransactionsRecorded prometheus.Counter
	RowsWritten          prometheus.Counter
	RecordErrors         *prometheus.CounterVec

	// Reconstruction metrics
	Reconstructions       *prometheus.CounterVec
	ReconstructionTime    prometheus.Histogram
	ReconstructionScanned prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		TransactionsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "homeledger_transactions_recorded_total",
			Help: "Total number of transactions recorded",
		}),
		RowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "homeledger_rows_written_total",
			Help: "Total number of ledger rows written",
		}),
		RecordErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homeledger_record_errors_total",
				Help: "Total number of failed recordings by kind",
			},
			[]string{"kind"},
		),

		Reconstructions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homeledger_reconstructions_total",
				Help: "Total balance reconstructions by outcome",
			},
			[]string{"outcome"},
		),
		ReconstructionTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "homeledger_reconstruction_duration_seconds",
			Help:    "Duration of balance reconstructions",
			Buckets: prometheus.DefBuckets,
		}),
		ReconstructionScanned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "homeledger_reconstruction_rows_scanned",
			Help:    "Rows read per balance reconstruction",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "homeledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "homeledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "homeledger_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "homeledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "homeledger_outbox_errors_total",
			Help: "Total outbox events that failed to publish",
		}),
	}
}

// TransactionRecorded implements usecase.Observer.
func (m *Metrics) TransactionRecorded(rows int) {
	m.TransactionsRecorded.Inc()
	m.RowsWritten.Add(float64(rows))
}

// RecordFailed implements usecase.Observer.
func (m *Metrics) RecordFailed(kind string) {
	m.RecordErrors.WithLabelValues(kind).Inc()
}

// BalanceReconstructed implements usecase.Observer.
func (m *Metrics) BalanceReconstructed(result domain.Reconstruction, duration time.Duration) {
	outcome := OutcomeKnown

	switch {
	case result.BalanceKnown():
	case result.Overflow:
		outcome = OutcomeOverflow
	case result.Truncated:
		outcome = OutcomeTruncated
	default:
		outcome = OutcomeUnknown
	}

	m.Reconstructions.WithLabelValues(outcome).Inc()
	m.ReconstructionTime.Observe(duration.Seconds())
	m.ReconstructionScanned.Observe(float64(result.RowsScanned))
}
