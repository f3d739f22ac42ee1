/*
Package store defines the pluggable key-value container holding the items of
the add-set and remove-set of an LWW element dictionary, together with two
implementations: MapStore, the reference in-memory store, and RedisStore,
which keeps each store in one Redis hash.

Every key maps to exactly one item. Setting a key replaces its item as a
whole, items are never merged by a store. Key order is unspecified.
*/
package store
