package replica

import (
	"github.com/go-pluto/lwwdict/crdt"
)

// Service defines the interface a replica of an
// LWW element dictionary provides to its transport.
type Service[L any, V any] interface {

	// ID returns the replica id.
	ID() int

	// Add writes value under key and returns the
	// operation to broadcast.
	Add(key string, value V) crdt.Op[L, V]

	// Remove deletes key and returns the operation
	// to broadcast.
	Remove(key string) crdt.Op[L, V]

	// UpdateKey renames an element and returns the
	// operation to broadcast or crdt.ErrNotFound.
	UpdateKey(oldKey string, newKey string) (crdt.Op[L, V], error)

	// Apply integrates an operation of another replica.
	Apply(op crdt.Op[L, V]) (int, error)

	// State exports the full replica state for
	// state-based replication.
	State() State[L, V]

	// MergeState merges the state of another replica.
	MergeState(state State[L, V])

	// Restore replaces the dictionary state with obj.
	Restore(obj crdt.Object[L, V])

	Get(key string) (V, bool)
	Has(key string) bool
	Keys() []string
	Object() crdt.Object[L, V]
	IsEqual(obj crdt.Object[L, V]) bool
	Reset()
}
