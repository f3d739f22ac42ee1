package replica

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	"github.com/go-pluto/lwwdict/crdt"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters of a replica.
type Metrics struct {
	Adds         metrics.Counter
	Removes      metrics.Counter
	Renames      metrics.Counter
	AppliedOps   metrics.Counter
	MergedStates metrics.Counter
}

type metricsService[L any, V any] struct {
	service Service[L, V]
	metrics *Metrics
}

func newCounter(name string, help string) metrics.Counter {

	return prometheus.NewCounterFrom(prom.CounterOpts{
		Namespace: "lwwdict",
		Subsystem: "replica",
		Name:      name,
		Help:      help,
	}, nil)
}

// NewMetrics returns Prometheus backed counters if an
// address to expose them on is configured and counters
// discarding all observations otherwise.
func NewMetrics(prometheusAddr string) *Metrics {

	if prometheusAddr == "" {
		return &Metrics{
			Adds:         discard.NewCounter(),
			Removes:      discard.NewCounter(),
			Renames:      discard.NewCounter(),
			AppliedOps:   discard.NewCounter(),
			MergedStates: discard.NewCounter(),
		}
	}

	return &Metrics{
		Adds:         newCounter("adds_total", "Number of local adds"),
		Removes:      newCounter("removes_total", "Number of local removes"),
		Renames:      newCounter("renames_total", "Number of successful local key updates"),
		AppliedOps:   newCounter("applied_ops_total", "Number of applied remote operations"),
		MergedStates: newCounter("merged_states_total", "Number of merged remote states"),
	}
}

func NewMetricsService[L any, V any](s Service[L, V], m *Metrics) Service[L, V] {
	return &metricsService[L, V]{
		service: s,
		metrics: m,
	}
}

func (s *metricsService[L, V]) ID() int {
	return s.service.ID()
}

func (s *metricsService[L, V]) Add(key string, value V) crdt.Op[L, V] {

	op := s.service.Add(key, value)
	s.metrics.Adds.Add(1)

	return op
}

func (s *metricsService[L, V]) Remove(key string) crdt.Op[L, V] {

	op := s.service.Remove(key)
	s.metrics.Removes.Add(1)

	return op
}

func (s *metricsService[L, V]) UpdateKey(oldKey string, newKey string) (crdt.Op[L, V], error) {

	op, err := s.service.UpdateKey(oldKey, newKey)

	if err == nil {
		s.metrics.Renames.Add(1)
	}

	return op, err
}

func (s *metricsService[L, V]) Apply(op crdt.Op[L, V]) (int, error) {

	accepted, err := s.service.Apply(op)

	if err == nil {
		s.metrics.AppliedOps.Add(1)
	}

	return accepted, err
}

func (s *metricsService[L, V]) State() State[L, V] {
	return s.service.State()
}

func (s *metricsService[L, V]) MergeState(state State[L, V]) {
	s.service.MergeState(state)
	s.metrics.MergedStates.Add(1)
}

func (s *metricsService[L, V]) Restore(obj crdt.Object[L, V]) {
	s.service.Restore(obj)
}

func (s *metricsService[L, V]) Get(key string) (V, bool) {
	return s.service.Get(key)
}

func (s *metricsService[L, V]) Has(key string) bool {
	return s.service.Has(key)
}

func (s *metricsService[L, V]) Keys() []string {
	return s.service.Keys()
}

func (s *metricsService[L, V]) Object() crdt.Object[L, V] {
	return s.service.Object()
}

func (s *metricsService[L, V]) IsEqual(obj crdt.Object[L, V]) bool {
	return s.service.IsEqual(obj)
}

func (s *metricsService[L, V]) Reset() {
	s.service.Reset()
}
