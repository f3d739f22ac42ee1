package store

import (
	"sort"

	"github.com/go-pluto/lwwdict/utils"
)

// Structs

// Store maps element keys to exactly one item each.
type Store[T any] interface {

	// Get returns the item stored at key and whether
	// there was one.
	Get(key string) (T, bool)

	// Has reports whether key holds an item.
	Has(key string) bool

	// Keys lists all keys in unspecified order.
	Keys() []string

	// Remove deletes the item at key and reports
	// whether there was one.
	Remove(key string) bool

	// Reset empties the store.
	Reset()

	// Set inserts item at key, replacing any previous one.
	Set(key string, item T)
}

// Constructor creates a new, empty store. An LWW element
// dictionary builds its add-set and remove-set from the
// same constructor.
type Constructor[T any] func() Store[T]

// Functions

// keysOf lists the keys of s. A nil store has none.
func keysOf[T any](s Store[T]) []string {

	if s == nil {
		return []string{}
	}

	return s.Keys()
}

// Equal reports whether two stores hold the same key set
// and structurally equal items under every key. A nil
// store equals an empty one.
func Equal[T any](a Store[T], b Store[T]) bool {

	aKeys := keysOf(a)
	bKeys := keysOf(b)

	if len(aKeys) != len(bKeys) {
		return false
	}

	// Sort both key lists for a stable comparison.
	sort.Strings(aKeys)
	sort.Strings(bKeys)

	for i := range aKeys {

		if aKeys[i] != bKeys[i] {
			return false
		}
	}

	// Compare items key by key.
	for _, key := range aKeys {

		aItem, _ := a.Get(key)
		bItem, _ := b.Get(key)

		if !utils.Equal(aItem, bItem) {
			return false
		}
	}

	return true
}
