package crdt

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Structs

// OpName identifies the kind of a replicated operation.
type OpName string

// Op is one stamped local mutation, sent to all other
// replicas for operation-based replication. Keys and Items
// are parallel: for add and remove they hold one entry, for
// update_key the new key with its add-set item followed by
// the old key with its tombstone.
type Op[L any, V any] struct {
	ID     string       `json:"id"`
	Name   OpName       `json:"name"`
	Sender int          `json:"sender"`
	Clock  L            `json:"clock"`
	Keys   []string     `json:"keys"`
	Items  []Item[L, V] `json:"items"`
}

const (
	OpAdd       OpName = "add"
	OpRemove    OpName = "remove"
	OpUpdateKey OpName = "update_key"
)

// Variables

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Functions

// ParseOpName validates s as a known operation name.
func ParseOpName(s string) (OpName, error) {

	switch OpName(s) {
	case OpAdd, OpRemove, OpUpdateKey:
		return OpName(s), nil
	}

	return "", errors.Errorf("unknown operation '%s'", s)
}

// NewOp assembles an operation and assigns it a fresh
// unique id.
func NewOp[L any, V any](name OpName, sender int, clock L, keys []string, items []Item[L, V]) Op[L, V] {

	return Op[L, V]{
		ID:     uuid.NewV4().String(),
		Name:   name,
		Sender: sender,
		Clock:  clock,
		Keys:   keys,
		Items:  items,
	}
}

// Validate checks that the operation is well formed.
func (op Op[L, V]) Validate() error {

	if _, err := ParseOpName(string(op.Name)); err != nil {
		return err
	}

	if len(op.Keys) != len(op.Items) {
		return errors.Errorf("operation %s carries %d keys but %d items", op.ID, len(op.Keys), len(op.Items))
	}

	want := 1
	if op.Name == OpUpdateKey {
		want = 2
	}

	if len(op.Keys) != want {
		return errors.Errorf("operation %s (%s) expects %d keys, got %d", op.ID, op.Name, want, len(op.Keys))
	}

	return nil
}

// Replay applies the items carried by op through AddItem
// and RemoveItem. The caller must have synchronized the
// clock with op.Clock beforehand. Replay reports how many
// items were accepted.
func (d *Dict[L, V]) Replay(op Op[L, V]) (int, error) {

	if err := op.Validate(); err != nil {
		return 0, err
	}

	accepted := 0

	switch op.Name {

	case OpAdd:
		if d.AddItem(op.Keys[0], op.Items[0]) {
			accepted++
		}

	case OpRemove:
		if d.RemoveItem(op.Keys[0], op.Items[0]) {
			accepted++
		}

	case OpUpdateKey:
		if d.AddItem(op.Keys[0], op.Items[0]) {
			accepted++
		}

		if d.RemoveItem(op.Keys[1], op.Items[1]) {
			accepted++
		}
	}

	return accepted, nil
}

// EncodeOp marshals op into its JSON wire form.
func EncodeOp[L any, V any](op Op[L, V]) ([]byte, error) {

	data, err := json.Marshal(op)
	if err != nil {
		return nil, errors.Wrap(err, "encoding operation failed")
	}

	return data, nil
}

// DecodeOp parses and validates an operation from its JSON
// wire form.
func DecodeOp[L any, V any](data []byte) (Op[L, V], error) {

	var op Op[L, V]

	if err := json.Unmarshal(data, &op); err != nil {
		return Op[L, V]{}, errors.Wrap(err, "decoding operation failed")
	}

	if err := op.Validate(); err != nil {
		return Op[L, V]{}, errors.Wrap(err, "invalid operation")
	}

	return op, nil
}

// EncodeObject marshals obj into its JSON wire form.
func EncodeObject[L any, V any](obj Object[L, V]) ([]byte, error) {

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "encoding object failed")
	}

	return data, nil
}

// DecodeObject parses an object from its JSON wire form.
// Missing sets decode as empty ones.
func DecodeObject[L any, V any](data []byte) (Object[L, V], error) {

	var obj Object[L, V]

	if err := json.Unmarshal(data, &obj); err != nil {
		return Object[L, V]{}, errors.Wrap(err, "decoding object failed")
	}

	if obj.AddSet == nil {
		obj.AddSet = make(map[string]Item[L, V])
	}

	if obj.RemoveSet == nil {
		obj.RemoveSet = make(map[string]Item[L, V])
	}

	return obj, nil
}
