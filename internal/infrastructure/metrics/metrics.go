package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gowallet"

// Metrics holds the wallet's Prometheus collectors. It implements
// usecase.MetricsRecorder and eventpublisher.Recorder.
type Metrics struct {
	// Wallet operations
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	IdempotentReplays *prometheus.CounterVec

	// Outbox
	EventsPublished *prometheus.CounterVec

	// Reconciliation
	Discrepancies prometheus.Gauge
}

// New creates the collectors and registers them with reg. Passing nil
// registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Wallet operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of wallet operations",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		IdempotentReplays: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "idempotent_replays_total",
				Help:      "Requests answered from an existing idempotency record, by record status",
			},
			[]string{"status"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_events_total",
				Help:      "Outbox events handed to the publisher, by type and result",
			},
			[]string{"event_type", "result"},
		),
		Discrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconciliation_discrepancies",
			Help:      "Wallets whose balance disagreed with the ledger on the last reconciliation",
		}),
	}
}

// ObserveOperation records one finished wallet operation.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncIdempotencyReplay counts a replayed request.
func (m *Metrics) IncIdempotencyReplay(status string) {
	m.IdempotentReplays.WithLabelValues(status).Inc()
}

// ObservePublish counts one outbox event publish attempt.
func (m *Metrics) ObservePublish(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

// SetDiscrepancies records the discrepancy count of the latest report.
func (m *Metrics) SetDiscrepancies(n int) {
	m.Discrepancies.Set(float64(n))
}
