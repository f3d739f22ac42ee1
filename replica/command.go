package replica

import (
	"github.com/go-pluto/lwwdict/crdt"
	"github.com/pkg/errors"
)

// Structs

// CommandName identifies a local command.
type CommandName string

// Command asks a replica to act locally. Writes produce
// an operation, a state command produces the full state,
// both to be broadcast to all other replicas.
type Command[L any, V any] struct {
	Name   CommandName        `json:"name"`
	Key    string             `json:"key,omitempty"`
	NewKey string             `json:"newKey,omitempty"`
	Value  V                  `json:"value,omitempty"`
	Object *crdt.Object[L, V] `json:"object,omitempty"`
}

const (
	CommandAdd       CommandName = "add"
	CommandRemove    CommandName = "remove"
	CommandUpdateKey CommandName = "update_key"
	CommandState     CommandName = "state"
	CommandRestore   CommandName = "restore"
)

// Functions

// Validate checks that all arguments needed by the
// command are present.
func (c Command[L, V]) Validate() error {

	switch c.Name {

	case CommandAdd, CommandRemove:
		if c.Key == "" {
			return errors.Errorf("command %s requires a key", c.Name)
		}

	case CommandUpdateKey:
		if c.Key == "" || c.NewKey == "" {
			return errors.Errorf("command %s requires a key and a new key", c.Name)
		}

	case CommandState:

	case CommandRestore:
		if c.Object == nil {
			return errors.Errorf("command %s requires an object", c.Name)
		}

	default:
		return errors.Errorf("unknown command '%s'", c.Name)
	}

	return nil
}

// Execute runs cmd against s. It returns the message to
// broadcast, or nil if there is nothing to send.
func Execute[L any, V any](s Service[L, V], cmd Command[L, V]) (*Message[L, V], error) {

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	switch cmd.Name {

	case CommandAdd:
		op := s.Add(cmd.Key, cmd.Value)
		return &Message[L, V]{Op: &op}, nil

	case CommandRemove:
		op := s.Remove(cmd.Key)
		return &Message[L, V]{Op: &op}, nil

	case CommandUpdateKey:
		op, err := s.UpdateKey(cmd.Key, cmd.NewKey)
		if err != nil {
			return nil, err
		}

		return &Message[L, V]{Op: &op}, nil

	case CommandState:
		state := s.State()
		return &Message[L, V]{State: &state}, nil
	}

	s.Restore(*cmd.Object)

	return nil, nil
}
