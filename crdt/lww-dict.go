package crdt

import (
	"github.com/go-pluto/lwwdict/clock"
	"github.com/go-pluto/lwwdict/store"
	"github.com/pkg/errors"
)

// Variables

// ErrNotFound is returned by UpdateKey if the element to
// be renamed is not present.
var ErrNotFound = errors.New("element key not found")

// Structs

// Dict is a Last-Write-Wins element dictionary mapping
// string keys to values of type V, stamped by a clock
// producing literals of type L.
type Dict[L any, V any] struct {
	clock     clock.Clock[L]
	bias      Bias
	newStore  store.Constructor[Item[L, V]]
	addSet    store.Store[Item[L, V]]
	removeSet store.Store[Item[L, V]]
}

// Functions

// New returns an empty dictionary bound to c. Its add-set
// and remove-set are two distinct stores built by newStore.
func New[L any, V any](c clock.Clock[L], newStore store.Constructor[Item[L, V]], bias Bias) *Dict[L, V] {

	return &Dict[L, V]{
		clock:     c,
		bias:      bias,
		newStore:  newStore,
		addSet:    newStore(),
		removeSet: newStore(),
	}
}

// Clock returns the clock the dictionary stamps with.
func (d *Dict[L, V]) Clock() clock.Clock[L] {
	return d.clock
}

// Bias returns the configured presence bias.
func (d *Dict[L, V]) Bias() Bias {
	return d.bias
}

// insert stores item at key in s unless the item already
// there is strictly newer. Equal clocks are overwritten.
func (d *Dict[L, V]) insert(s store.Store[Item[L, V]], key string, item Item[L, V]) bool {

	if existing, found := s.Get(key); found {

		if d.clock.Compare(existing.Clock, item.Clock) > 0 {
			return false
		}
	}

	s.Set(key, item)

	return true
}

// stamp wraps value into an item carrying the current
// clock literal.
func (d *Dict[L, V]) stamp(value V) Item[L, V] {

	return Item[L, V]{
		Clock: d.clock.Literal(),
		Value: value,
	}
}

// Add ticks the clock and writes value under key into
// the add-set. It returns the stamped item, ready to be
// replicated.
func (d *Dict[L, V]) Add(key string, value V) Item[L, V] {

	d.clock.Tick()

	item := d.stamp(value)
	d.AddItem(key, item)

	return item
}

// AddItem inserts a pre-stamped item into the add-set and
// reports whether it was accepted. The clock is not touched.
func (d *Dict[L, V]) AddItem(key string, item Item[L, V]) bool {
	return d.insert(d.addSet, key, item)
}

// Remove ticks the clock and writes a tombstone for key
// into the remove-set. It returns the stamped tombstone.
func (d *Dict[L, V]) Remove(key string) Item[L, V] {

	d.clock.Tick()

	var zero V
	item := d.stamp(zero)
	d.RemoveItem(key, item)

	return item
}

// RemoveItem inserts a pre-stamped tombstone into the
// remove-set and reports whether it was accepted. Any
// value carried by item is dropped.
func (d *Dict[L, V]) RemoveItem(key string, item Item[L, V]) bool {

	var zero V
	item.Value = zero

	return d.insert(d.removeSet, key, item)
}

// UpdateKey moves the element stored under oldKey to
// newKey. Both the new add-set item and the tombstone for
// oldKey carry the stamp of a single tick. ErrNotFound is
// returned if oldKey is not present.
func (d *Dict[L, V]) UpdateKey(oldKey string, newKey string) (Item[L, V], Item[L, V], error) {

	d.clock.Tick()

	current, found := d.GetItem(oldKey)
	if !found {
		return Item[L, V]{}, Item[L, V]{}, ErrNotFound
	}

	added := d.stamp(current.Value)
	d.AddItem(newKey, added)

	var zero V
	removed := d.stamp(zero)
	d.RemoveItem(oldKey, removed)

	return added, removed, nil
}

// GetItem resolves presence of key and returns its
// add-set item if the element is present.
func (d *Dict[L, V]) GetItem(key string) (Item[L, V], bool) {

	added, found := d.addSet.Get(key)
	if !found {
		return Item[L, V]{}, false
	}

	removed, found := d.removeSet.Get(key)
	if !found {
		return added, true
	}

	switch cmp := d.clock.Compare(added.Clock, removed.Clock); {
	case cmp < 0:
		return Item[L, V]{}, false
	case cmp == 0 && d.bias == BiasRemove:
		return Item[L, V]{}, false
	}

	return added, true
}

// Get returns the value of key if the element is present.
// A present element may hold the zero value, use the
// boolean to tell the cases apart.
func (d *Dict[L, V]) Get(key string) (V, bool) {

	item, found := d.GetItem(key)
	if !found {
		var zero V
		return zero, false
	}

	return item.Value, true
}

// Has reports whether key is present.
func (d *Dict[L, V]) Has(key string) bool {
	_, found := d.GetItem(key)
	return found
}

// Keys lists the keys of all present elements.
func (d *Dict[L, V]) Keys() []string {

	keys := make([]string, 0)

	for _, key := range d.addSet.Keys() {

		if d.Has(key) {
			keys = append(keys, key)
		}
	}

	return keys
}

// Reset empties both sets. The clock is kept.
func (d *Dict[L, V]) Reset() {
	d.addSet.Reset()
	d.removeSet.Reset()
}

// Literal exports both sets wholesale.
func (d *Dict[L, V]) Literal() Literal[L, V] {

	return Literal[L, V]{
		AddSet:    d.addSet,
		RemoveSet: d.removeSet,
	}
}

// FromLiteral replaces both sets with the ones of lit. A
// nil set is replaced by an empty one. The stores held
// before are left untouched, releasing them is up to the
// caller.
func (d *Dict[L, V]) FromLiteral(lit Literal[L, V]) {

	if lit.AddSet == nil {
		lit.AddSet = d.newStore()
	}

	if lit.RemoveSet == nil {
		lit.RemoveSet = d.newStore()
	}

	d.addSet = lit.AddSet
	d.removeSet = lit.RemoveSet
}

// IsEqual reports whether the dictionary holds exactly the
// same add-set and remove-set as lit.
func (d *Dict[L, V]) IsEqual(lit Literal[L, V]) bool {
	return IsDictEqual(d.Literal(), lit)
}

// Merge merges the state of other into the dictionary. The
// clock does not tick.
func (d *Dict[L, V]) Merge(other Literal[L, V]) {
	d.FromLiteral(Merge[L, V](d.clock, d.newStore, d.Literal(), other))
}

// Object exports both sets as plain maps for transport.
// Values are deep copies.
func (d *Dict[L, V]) Object() Object[L, V] {
	return ObjectFromLiteral(d.Literal())
}

// FromObject replaces both sets with fresh stores holding
// the items of obj. As with FromLiteral, the replaced stores
// are not reset.
func (d *Dict[L, V]) FromObject(obj Object[L, V]) {
	d.FromLiteral(obj.Literal(d.newStore))
}
