package replica

import (
	"testing"

	"github.com/go-pluto/lwwdict/crdt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vecCommand = Command[clockLit, string]

// TestCommandValidate checks the arguments required by
// every local command.
func TestCommandValidate(t *testing.T) {

	obj := crdt.Object[clockLit, string]{}

	tests := []struct {
		name  string
		cmd   vecCommand
		valid bool
	}{
		{"add", vecCommand{Name: CommandAdd, Key: "k", Value: "v"}, true},
		{"add without key", vecCommand{Name: CommandAdd}, false},
		{"remove", vecCommand{Name: CommandRemove, Key: "k"}, true},
		{"update key", vecCommand{Name: CommandUpdateKey, Key: "a", NewKey: "b"}, true},
		{"update key without new key", vecCommand{Name: CommandUpdateKey, Key: "a"}, false},
		{"state", vecCommand{Name: CommandState}, true},
		{"restore", vecCommand{Name: CommandRestore, Object: &obj}, true},
		{"restore without object", vecCommand{Name: CommandRestore}, false},
		{"unknown", vecCommand{Name: "merge"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.cmd.Validate() == nil)
		})
	}
}

// TestExecute drives one replica by local commands and
// replays what it broadcasts on a second one.
func TestExecute(t *testing.T) {

	a := newVectorReplica(0, 2)
	b := newVectorReplica(1, 2)

	run := func(cmd vecCommand) *Message[clockLit, string] {

		out, err := Execute[clockLit, string](a, cmd)
		require.Nil(t, err, "[replica.TestExecute] command %s failed", cmd.Name)

		if out != nil {
			_, err := Deliver[clockLit, string](b, *out)
			require.Nil(t, err)
		}

		return out
	}

	out := run(vecCommand{Name: CommandAdd, Key: "k", Value: "v"})
	require.NotNil(t, out.Op)
	assert.Equal(t, crdt.OpAdd, out.Op.Name)

	out = run(vecCommand{Name: CommandUpdateKey, Key: "k", NewKey: "n"})
	require.NotNil(t, out.Op)
	assert.Equal(t, []string{"n", "k"}, out.Op.Keys)

	out = run(vecCommand{Name: CommandRemove, Key: "n"})
	require.NotNil(t, out.Op)

	run(vecCommand{Name: CommandAdd, Key: "x", Value: "y"})

	out = run(vecCommand{Name: CommandState})
	require.NotNil(t, out.State)
	assert.Nil(t, out.Op)

	assert.Equal(t, []string{"x"}, b.Keys())
	assert.Equal(t, true, b.IsEqual(a.Object()))

	_, err := Execute[clockLit, string](a, vecCommand{Name: CommandUpdateKey, Key: "missing", NewKey: "m"})
	assert.Equal(t, crdt.ErrNotFound, err)

	_, err = Execute[clockLit, string](a, vecCommand{Name: CommandAdd})
	assert.NotNil(t, err)

	// Restoring replaces the state without broadcasting.
	obj := b.Object()
	c := newVectorReplica(1, 2)
	out, err = Execute[clockLit, string](c, vecCommand{Name: CommandRestore, Object: &obj})
	require.Nil(t, err)
	assert.Nil(t, out)
	assert.Equal(t, true, c.IsEqual(a.Object()))
}
