package crdt

import (
	"github.com/go-pluto/lwwdict/clock"
	"github.com/go-pluto/lwwdict/store"
	"github.com/go-pluto/lwwdict/utils"
)

// Structs

// Literal is the full state of a dictionary: its add-set
// and its remove-set.
type Literal[L any, V any] struct {
	AddSet    store.Store[Item[L, V]]
	RemoveSet store.Store[Item[L, V]]
}

// Object is the plain map form of a Literal, suitable
// for encoding and sending to other replicas.
type Object[L any, V any] struct {
	AddSet    map[string]Item[L, V] `json:"addSet"`
	RemoveSet map[string]Item[L, V] `json:"removeSet"`
}

// Functions

// mergeSet inserts every item of src into dst under the
// insert rule: an existing item only survives if it is
// strictly newer than the candidate.
func mergeSet[L any, V any](cmp clock.Comparer[L], dst store.Store[Item[L, V]], src store.Store[Item[L, V]]) {

	for _, key := range src.Keys() {

		candidate, found := src.Get(key)
		if !found {
			continue
		}

		if existing, found := dst.Get(key); found {

			if cmp.Compare(existing.Clock, candidate.Clock) > 0 {
				continue
			}
		}

		dst.Set(key, candidate)
	}
}

// Merge folds all literals left to right into a fresh
// pair of stores built by newStore. For every key the item
// with the greatest clock under cmp wins.
func Merge[L any, V any](cmp clock.Comparer[L], newStore store.Constructor[Item[L, V]], literals ...Literal[L, V]) Literal[L, V] {

	merged := Literal[L, V]{
		AddSet:    newStore(),
		RemoveSet: newStore(),
	}

	for _, lit := range literals {

		if lit.AddSet != nil {
			mergeSet(cmp, merged.AddSet, lit.AddSet)
		}

		if lit.RemoveSet != nil {
			mergeSet(cmp, merged.RemoveSet, lit.RemoveSet)
		}
	}

	return merged
}

// IsDictEqual reports whether a and b hold equal add-sets
// and equal remove-sets, a nil set counting as empty. Two
// literals resolving to the same present elements may still
// differ in their tombstones.
func IsDictEqual[L any, V any](a Literal[L, V], b Literal[L, V]) bool {
	return store.Equal(a.AddSet, b.AddSet) && store.Equal(a.RemoveSet, b.RemoveSet)
}

// setToMap copies all items of s into a map, deep cloning
// every item on the way.
func setToMap[L any, V any](s store.Store[Item[L, V]]) map[string]Item[L, V] {

	m := make(map[string]Item[L, V])

	if s == nil {
		return m
	}

	for _, key := range s.Keys() {

		if item, found := s.Get(key); found {
			m[key] = utils.Clone(item)
		}
	}

	return m
}

// ObjectFromLiteral converts lit into its plain map form.
func ObjectFromLiteral[L any, V any](lit Literal[L, V]) Object[L, V] {

	return Object[L, V]{
		AddSet:    setToMap(lit.AddSet),
		RemoveSet: setToMap(lit.RemoveSet),
	}
}

// Literal builds fresh stores via newStore and fills them
// with the items of the object.
func (o Object[L, V]) Literal(newStore store.Constructor[Item[L, V]]) Literal[L, V] {

	lit := Literal[L, V]{
		AddSet:    newStore(),
		RemoveSet: newStore(),
	}

	for key, item := range o.AddSet {
		lit.AddSet.Set(key, utils.Clone(item))
	}

	for key, item := range o.RemoveSet {
		lit.RemoveSet.Set(key, utils.Clone(item))
	}

	return lit
}
