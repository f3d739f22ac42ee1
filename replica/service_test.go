package replica

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/go-pluto/lwwdict/crdt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggingService checks that the logging decorator
// passes calls through and reports failures.
func TestLoggingService(t *testing.T) {

	var buf bytes.Buffer
	logger := level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowInfo())

	s := NewLoggingService[clockLit, string](newVectorReplica(0, 2), logger)
	assert.Equal(t, 0, s.ID())

	s.Add("k", "v")
	assert.Equal(t, "", buf.String(), "[replica.TestLoggingService] debug output should be filtered")

	_, err := s.UpdateKey("missing", "other")
	assert.Equal(t, crdt.ErrNotFound, err)
	assert.Contains(t, buf.String(), "method=UpdateKey")
	assert.Contains(t, buf.String(), "replica=0")

	buf.Reset()
	_, err = s.Apply(vecOp{Name: "bogus"})
	assert.NotNil(t, err)
	assert.Contains(t, buf.String(), "failed to apply operation")

	value, found := s.Get("k")
	assert.Equal(t, true, found)
	assert.Equal(t, "v", value)
}

// TestMetricsService checks the counters maintained by
// the metrics decorator.
func TestMetricsService(t *testing.T) {

	m := &Metrics{
		Adds:         generic.NewCounter("adds"),
		Removes:      generic.NewCounter("removes"),
		Renames:      generic.NewCounter("renames"),
		AppliedOps:   generic.NewCounter("applied"),
		MergedStates: generic.NewCounter("merged"),
	}

	s := NewMetricsService[clockLit, string](newVectorReplica(0, 2), m)
	other := newVectorReplica(1, 2)

	s.Add("a", "1")
	s.Add("b", "2")
	s.Remove("a")

	_, err := s.UpdateKey("b", "c")
	require.Nil(t, err)
	_, err = s.UpdateKey("missing", "d")
	assert.NotNil(t, err)

	_, err = s.Apply(other.Add("x", "y"))
	require.Nil(t, err)
	_, err = s.Apply(vecOp{Name: "bogus"})
	assert.NotNil(t, err)

	s.MergeState(other.State())

	assert.Equal(t, float64(2), m.Adds.(*generic.Counter).Value())
	assert.Equal(t, float64(1), m.Removes.(*generic.Counter).Value())
	assert.Equal(t, float64(1), m.Renames.(*generic.Counter).Value())
	assert.Equal(t, float64(1), m.AppliedOps.(*generic.Counter).Value())
	assert.Equal(t, float64(1), m.MergedStates.(*generic.Counter).Value())

	assert.ElementsMatch(t, []string{"c", "x"}, s.Keys())
}

// TestNewMetrics checks both kinds of counters can be built.
func TestNewMetrics(t *testing.T) {

	m := NewMetrics("")
	assert.NotNil(t, m.Adds)
	assert.NotNil(t, m.MergedStates)

	m = NewMetrics(":9099")
	assert.NotNil(t, m.Adds)
	assert.NotNil(t, m.AppliedOps)
	m.Adds.Add(1)
}

// TestMessageCodec encodes and decodes both kinds of
// messages and delivers them.
func TestMessageCodec(t *testing.T) {

	a := newVectorReplica(0, 2)
	b := newVectorReplica(1, 2)

	op := a.Add("k", "v")

	data, err := EncodeMessage(Message[clockLit, string]{Op: &op})
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"op":`))

	msg, err := DecodeMessage[clockLit, string](data)
	require.Nil(t, err)
	require.NotNil(t, msg.Op)
	assert.Nil(t, msg.State)
	out, err := Deliver[clockLit, string](b, msg)
	require.Nil(t, err)
	assert.Nil(t, out)
	assert.Equal(t, true, b.Has("k"))

	state := a.State()
	data, err = EncodeMessage(Message[clockLit, string]{State: &state})
	require.Nil(t, err)

	msg, err = DecodeMessage[clockLit, string](data)
	require.Nil(t, err)
	require.NotNil(t, msg.State)
	out, err = Deliver[clockLit, string](b, msg)
	require.Nil(t, err)
	assert.Nil(t, out)
	assert.Equal(t, true, b.IsEqual(a.Object()))

	msg, err = DecodeMessage[clockLit, string]([]byte(`{"state":{"sender":0,"clock":{"id":0,"times":[1,0]}}}`))
	require.Nil(t, err)
	assert.NotNil(t, msg.State.Object.AddSet)

	bad := []string{
		`{}`,
		`{"op":{"name":"add","keys":["k"],"items":[]}}`,
		`{"op":{"name":"add","keys":["k"],"items":[{"clock":{"id":0,"times":[1,0]},"value":"v"}]},"state":{}}`,
		`[1, 2]`,
		`{"local":{"name":"add"}}`,
		`{"local":{"name":"state"},"state":{}}`,
	}

	for _, raw := range bad {
		_, err := DecodeMessage[clockLit, string]([]byte(raw))
		assert.NotNil(t, err, raw)
	}

	_, err = Deliver[clockLit, string](b, Message[clockLit, string]{})
	assert.NotNil(t, err)
}
