package replica

import (
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-pluto/lwwdict/crdt"
)

type loggingService[L any, V any] struct {
	logger  log.Logger
	service Service[L, V]
}

// NewLoggingService wraps a provided existing
// service with the provided logger.
func NewLoggingService[L any, V any](s Service[L, V], logger log.Logger) Service[L, V] {
	return &loggingService[L, V]{log.With(logger, "replica", s.ID()), s}
}

func (s *loggingService[L, V]) ID() int {
	return s.service.ID()
}

// Add wraps this service's Add method with
// added logging capabilities.
func (s *loggingService[L, V]) Add(key string, value V) crdt.Op[L, V] {

	op := s.service.Add(key, value)

	level.Debug(s.logger).Log(
		"method", "Add",
		"key", key,
		"op", op.ID,
		"clock", op.Clock,
	)

	return op
}

// Remove wraps this service's Remove method
// with added logging capabilities.
func (s *loggingService[L, V]) Remove(key string) crdt.Op[L, V] {

	op := s.service.Remove(key)

	level.Debug(s.logger).Log(
		"method", "Remove",
		"key", key,
		"op", op.ID,
		"clock", op.Clock,
	)

	return op
}

// UpdateKey wraps this service's UpdateKey
// method with added logging capabilities.
func (s *loggingService[L, V]) UpdateKey(oldKey string, newKey string) (crdt.Op[L, V], error) {

	op, err := s.service.UpdateKey(oldKey, newKey)

	logger := log.With(s.logger,
		"method", "UpdateKey",
		"old", oldKey,
		"new", newKey,
	)

	if err != nil {
		level.Info(logger).Log("msg", "failed to perform operation UpdateKey", "err", err)
	} else {
		level.Debug(logger).Log("op", op.ID, "clock", op.Clock)
	}

	return op, err
}

// Apply wraps this service's Apply method
// with added logging capabilities.
func (s *loggingService[L, V]) Apply(op crdt.Op[L, V]) (int, error) {

	accepted, err := s.service.Apply(op)

	logger := log.With(s.logger,
		"method", "Apply",
		"op", op.ID,
		"name", op.Name,
		"sender", op.Sender,
		"keys", len(op.Keys),
	)

	if err != nil {
		level.Info(logger).Log("msg", "failed to apply operation", "err", err)
	} else {
		level.Debug(logger).Log("accepted", accepted)
	}

	return accepted, err
}

// State wraps this service's State method
// with added logging capabilities.
func (s *loggingService[L, V]) State() State[L, V] {

	state := s.service.State()

	level.Debug(s.logger).Log(
		"method", "State",
		"clock", state.Clock,
		"adds", len(state.Object.AddSet),
		"removes", len(state.Object.RemoveSet),
	)

	return state
}

// MergeState wraps this service's MergeState
// method with added logging capabilities.
func (s *loggingService[L, V]) MergeState(state State[L, V]) {

	s.service.MergeState(state)

	level.Debug(s.logger).Log(
		"method", "MergeState",
		"sender", state.Sender,
		"clock", state.Clock,
	)
}

// Restore wraps this service's Restore method
// with added logging capabilities.
func (s *loggingService[L, V]) Restore(obj crdt.Object[L, V]) {

	s.service.Restore(obj)

	level.Info(s.logger).Log(
		"method", "Restore",
		"adds", len(obj.AddSet),
		"removes", len(obj.RemoveSet),
	)
}

func (s *loggingService[L, V]) Get(key string) (V, bool) {
	return s.service.Get(key)
}

func (s *loggingService[L, V]) Has(key string) bool {
	return s.service.Has(key)
}

func (s *loggingService[L, V]) Keys() []string {
	return s.service.Keys()
}

func (s *loggingService[L, V]) Object() crdt.Object[L, V] {
	return s.service.Object()
}

func (s *loggingService[L, V]) IsEqual(obj crdt.Object[L, V]) bool {
	return s.service.IsEqual(obj)
}

// Reset wraps this service's Reset method
// with added logging capabilities.
func (s *loggingService[L, V]) Reset() {

	s.service.Reset()

	level.Info(s.logger).Log("method", "Reset", "msg", "dropped all elements and tombstones")
}
