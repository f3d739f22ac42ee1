package replica

import (
	"github.com/go-pluto/lwwdict/crdt"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Structs

// Message is the envelope read by a replica. It carries
// exactly one of an operation or a state received from
// another replica, or a local command.
type Message[L any, V any] struct {
	Op    *crdt.Op[L, V] `json:"op,omitempty"`
	State *State[L, V]   `json:"state,omitempty"`
	Local *Command[L, V] `json:"local,omitempty"`
}

// Variables

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Functions

// EncodeMessage marshals msg into its JSON wire form.
func EncodeMessage[L any, V any](msg Message[L, V]) ([]byte, error) {

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "encoding message failed")
	}

	return data, nil
}

// DecodeMessage parses a message and checks that it
// carries exactly one payload.
func DecodeMessage[L any, V any](data []byte) (Message[L, V], error) {

	var msg Message[L, V]

	if err := json.Unmarshal(data, &msg); err != nil {
		return Message[L, V]{}, errors.Wrap(err, "decoding message failed")
	}

	if payloads(msg) != 1 {
		return Message[L, V]{}, errors.New("message must carry exactly one of an operation, a state or a command")
	}

	if msg.Op != nil {

		if err := msg.Op.Validate(); err != nil {
			return Message[L, V]{}, errors.Wrap(err, "invalid operation")
		}
	}

	if msg.Local != nil {

		if err := msg.Local.Validate(); err != nil {
			return Message[L, V]{}, errors.Wrap(err, "invalid command")
		}
	}

	if msg.State != nil {

		if msg.State.Object.AddSet == nil {
			msg.State.Object.AddSet = make(map[string]crdt.Item[L, V])
		}

		if msg.State.Object.RemoveSet == nil {
			msg.State.Object.RemoveSet = make(map[string]crdt.Item[L, V])
		}
	}

	return msg, nil
}

func payloads[L any, V any](msg Message[L, V]) int {

	n := 0

	if msg.Op != nil {
		n++
	}

	if msg.State != nil {
		n++
	}

	if msg.Local != nil {
		n++
	}

	return n
}

// Deliver dispatches msg to the matching method of s. For
// local commands it returns the message to broadcast, if
// any.
func Deliver[L any, V any](s Service[L, V], msg Message[L, V]) (*Message[L, V], error) {

	if msg.Op != nil {
		_, err := s.Apply(*msg.Op)
		return nil, err
	}

	if msg.State != nil {
		s.MergeState(*msg.State)
		return nil, nil
	}

	if msg.Local != nil {
		return Execute(s, *msg.Local)
	}

	return nil, errors.New("empty message")
}
