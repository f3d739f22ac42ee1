package replica

import (
	"sync"

	"github.com/go-pluto/lwwdict/clock"
	"github.com/go-pluto/lwwdict/crdt"
	"github.com/go-pluto/lwwdict/store"
)

// Structs

// Replica owns one clock and one dictionary and guards
// both with a single lock.
type Replica[L any, V any] struct {
	lock  *sync.Mutex
	clock clock.Clock[L]
	dict  *crdt.Dict[L, V]
}

// State is a full snapshot of a replica, stamped with the
// clock of the sending replica.
type State[L any, V any] struct {
	Sender int              `json:"sender"`
	Clock  L                `json:"clock"`
	Object crdt.Object[L, V] `json:"object"`
}

// Functions

// New creates a replica stamping its writes with c and
// keeping its sets in stores built by newStore.
func New[L any, V any](c clock.Clock[L], newStore store.Constructor[crdt.Item[L, V]], bias crdt.Bias) *Replica[L, V] {

	return &Replica[L, V]{
		lock:  &sync.Mutex{},
		clock: c,
		dict:  crdt.New[L, V](c, newStore, bias),
	}
}

// ID returns the replica id of the underlying clock.
func (r *Replica[L, V]) ID() int {
	return r.clock.ID()
}

// send ticks the clock for a send event and wraps the
// supplied keys and items into an operation.
func (r *Replica[L, V]) send(name crdt.OpName, keys []string, items []crdt.Item[L, V]) crdt.Op[L, V] {

	r.clock.Tick()

	return crdt.NewOp(name, r.clock.ID(), r.clock.Literal(), keys, items)
}

// Add writes value under key and returns the operation
// to broadcast to all other replicas.
func (r *Replica[L, V]) Add(key string, value V) crdt.Op[L, V] {

	r.lock.Lock()
	defer r.lock.Unlock()

	item := r.dict.Add(key, value)

	return r.send(crdt.OpAdd, []string{key}, []crdt.Item[L, V]{item})
}

// Remove deletes key and returns the operation to
// broadcast to all other replicas.
func (r *Replica[L, V]) Remove(key string) crdt.Op[L, V] {

	r.lock.Lock()
	defer r.lock.Unlock()

	item := r.dict.Remove(key)

	return r.send(crdt.OpRemove, []string{key}, []crdt.Item[L, V]{item})
}

// UpdateKey renames oldKey to newKey. If oldKey is not
// present, crdt.ErrNotFound is returned and there is
// nothing to broadcast.
func (r *Replica[L, V]) UpdateKey(oldKey string, newKey string) (crdt.Op[L, V], error) {

	r.lock.Lock()
	defer r.lock.Unlock()

	added, removed, err := r.dict.UpdateKey(oldKey, newKey)
	if err != nil {
		return crdt.Op[L, V]{}, err
	}

	return r.send(crdt.OpUpdateKey, []string{newKey, oldKey}, []crdt.Item[L, V]{added, removed}), nil
}

// Apply integrates an operation received from another
// replica. The local clock reacts to the sender's clock
// first, then the carried items are replayed. It returns
// the number of accepted items.
func (r *Replica[L, V]) Apply(op crdt.Op[L, V]) (int, error) {

	if err := op.Validate(); err != nil {
		return 0, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.clock.Tock(op.Clock)

	return r.dict.Replay(op)
}

// State ticks the clock for a send event and exports the
// full state of the replica.
func (r *Replica[L, V]) State() State[L, V] {

	r.lock.Lock()
	defer r.lock.Unlock()

	r.clock.Tick()

	return State[L, V]{
		Sender: r.clock.ID(),
		Clock:  r.clock.Literal(),
		Object: r.dict.Object(),
	}
}

// MergeState merges a state received from another replica.
// The stores held before the merge are reset afterwards.
func (r *Replica[L, V]) MergeState(state State[L, V]) {

	r.lock.Lock()
	defer r.lock.Unlock()

	r.clock.Tock(state.Clock)

	previous := r.dict.Literal()
	r.dict.Merge(state.Object.Literal(store.MapConstructor[crdt.Item[L, V]]()))

	previous.AddSet.Reset()
	previous.RemoveSet.Reset()
}

// Restore replaces the whole state of the dictionary with
// obj without touching the clock. The stores held before
// are reset.
func (r *Replica[L, V]) Restore(obj crdt.Object[L, V]) {

	r.lock.Lock()
	defer r.lock.Unlock()

	previous := r.dict.Literal()
	r.dict.FromObject(obj)

	previous.AddSet.Reset()
	previous.RemoveSet.Reset()
}

// Get returns the value stored under key, if present.
func (r *Replica[L, V]) Get(key string) (V, bool) {

	r.lock.Lock()
	defer r.lock.Unlock()

	return r.dict.Get(key)
}

// Has reports whether key is present.
func (r *Replica[L, V]) Has(key string) bool {

	r.lock.Lock()
	defer r.lock.Unlock()

	return r.dict.Has(key)
}

// Keys lists all present keys.
func (r *Replica[L, V]) Keys() []string {

	r.lock.Lock()
	defer r.lock.Unlock()

	return r.dict.Keys()
}

// Object exports both sets of the dictionary without
// ticking the clock.
func (r *Replica[L, V]) Object() crdt.Object[L, V] {

	r.lock.Lock()
	defer r.lock.Unlock()

	return r.dict.Object()
}

// IsEqual reports whether the replica holds exactly the
// sets described by obj.
func (r *Replica[L, V]) IsEqual(obj crdt.Object[L, V]) bool {

	r.lock.Lock()
	defer r.lock.Unlock()

	return r.dict.IsEqual(obj.Literal(store.MapConstructor[crdt.Item[L, V]]()))
}

// Reset empties the dictionary, the clock is kept.
func (r *Replica[L, V]) Reset() {

	r.lock.Lock()
	defer r.lock.Unlock()

	r.dict.Reset()
}
