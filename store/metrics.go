package store

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for store operations.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers store metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookstore",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of store operations by backend, operation and outcome",
		}, []string{"backend", "operation", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookstore",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"backend", "operation"}),
	}
}

// Instrumented decorates a Store with metrics. The wrapped store's
// semantics are unchanged.
type Instrumented struct {
	next    Store
	backend string
	m       *Metrics
}

func NewInstrumented(next Store, backend string, m *Metrics) *Instrumented {
	return &Instrumented{next: next, backend: backend, m: m}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrCollectionNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.m.OperationsTotal.WithLabelValues(s.backend, op, outcome).Inc()
	s.m.OperationDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

func (s *Instrumented) Create(name string) error {
	start := time.Now()
	err := s.next.Create(name)
	s.observe("create", start, err)
	return err
}

func (s *Instrumented) Read(name string) (string, error) {
	start := time.Now()
	out, err := s.next.Read(name)
	s.observe("read", start, err)
	return out, err
}

func (s *Instrumented) Insert(record any, name string) error {
	start := time.Now()
	err := s.next.Insert(record, name)
	s.observe("insert", start, err)
	return err
}

func (s *Instrumented) Update(records any, name string) error {
	start := time.Now()
	err := s.next.Update(records, name)
	s.observe("update", start, err)
	return err
}

func (s *Instrumented) Delete(record any, name string) error {
	start := time.Now()
	err := s.next.Delete(record, name)
	s.observe("delete", start, err)
	return err
}

func (s *Instrumented) Drop(name string) error {
	start := time.Now()
	err := s.next.Drop(name)
	s.observe("drop", start, err)
	return err
}
