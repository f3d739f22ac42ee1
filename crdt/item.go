package crdt

// Item is an element entry stamped with the clock literal
// of the moment it was written. Items in the remove-set
// are tombstones and carry the zero Value.
//
// Items are values: they are replaced as a whole and
// never mutated in place once stored.
type Item[L any, V any] struct {
	Clock L `json:"clock"`
	Value V `json:"value"`
}
