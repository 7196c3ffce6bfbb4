// Package metrics exposes Prometheus instrumentation for stack operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/systmms/gstack/pkg/stack"
)

// Result labels for gstack_operations_total.
const (
	ResultOK    = "ok"
	ResultFault = "fault"
	// ResultError marks a failure that carried no fault set.
	ResultError = "error"
)

// StackMetrics records operation outcomes, detected faults and capacity.
type StackMetrics struct {
	operations *prometheus.CounterVec
	faults     *prometheus.CounterVec
	capacity   *prometheus.GaugeVec
}

// NewStackMetrics registers the stack metrics on reg. A nil reg uses the
// default registerer.
func NewStackMetrics(reg prometheus.Registerer) *StackMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &StackMetrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gstack_operations_total",
				Help: "Total number of stack operations by outcome",
			},
			[]string{"op", "result"},
		),
		faults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gstack_faults_total",
				Help: "Total number of detected faults by kind",
			},
			[]string{"fault"},
		),
		capacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gstack_capacity",
				Help: "Current slot capacity of an instrumented stack",
			},
			[]string{"stack"},
		),
	}
}

// RecordOperation counts one operation and every fault it reported.
func (m *StackMetrics) RecordOperation(op string, faults stack.Faults) {
	if m == nil {
		return
	}
	result := ResultOK
	if !faults.Healthy() {
		result = ResultFault
	}
	m.operations.WithLabelValues(op, result).Inc()
	for _, name := range faults.Names() {
		m.faults.WithLabelValues(name).Inc()
	}
}

// RecordError counts one operation that failed with an error other than a
// fault set. No fault kind is recorded.
func (m *StackMetrics) RecordError(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, ResultError).Inc()
}

// SetCapacity records the capacity of the named stack.
func (m *StackMetrics) SetCapacity(name string, capacity int) {
	if m == nil {
		return
	}
	m.capacity.WithLabelValues(name).Set(float64(capacity))
}
