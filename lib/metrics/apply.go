package metrics

import (
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type ApplyMetrics struct {
	OperationsTotal metrics.Counter
	DurationSeconds metrics.Histogram

	TotalOps metrics.Gauge
}

func (a *ApplyMetrics) ObserveApplied(opType string, begin time.Time) {
	a.OperationsTotal.With("type", opType, "result", "ok").Add(1)
	a.DurationSeconds.With("type", opType).Observe(time.Since(begin).Seconds())
}

func (a *ApplyMetrics) ObserveRejected(opType string, begin time.Time) {
	a.OperationsTotal.With("type", opType, "result", "rejected").Add(1)
	a.DurationSeconds.With("type", opType).Observe(time.Since(begin).Seconds())
}

func (a *ApplyMetrics) SetTotalOps(total uint64) {
	a.TotalOps.Set(float64(total))
}

func PromApplyMetrics() *ApplyMetrics {
	return &ApplyMetrics{
		OperationsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ApplySubsystem,
			Name:      "operations_total",
			Help:      "Total number of operations run through the apply pipeline.",
		}, []string{"type", "result"}),
		DurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: ApplySubsystem,
			Name:      "duration_seconds",
			Help:      "Time spent applying an operation.",
		}, []string{"type"}),
		TotalOps: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: ApplySubsystem,
			Name:      "total_ops",
			Help:      "Total number of recorded operations.",
		}, []string{}),
	}
}

func NopApplyMetrics() *ApplyMetrics {
	return &ApplyMetrics{
		OperationsTotal: discard.NewCounter(),
		DurationSeconds: discard.NewHistogram(),

		TotalOps: discard.NewGauge(),
	}
}
