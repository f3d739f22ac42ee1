package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kit/kit/log"
	"github.com/go-pluto/lwwdict/clock"
	"github.com/go-pluto/lwwdict/config"
	"github.com/go-pluto/lwwdict/crdt"
	"github.com/go-pluto/lwwdict/replica"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Functions

func newTestService(id int, m *replica.Metrics) replica.Service[clock.VectorLiteral, interface{}] {

	newStore := newStoreConstructor[clock.VectorLiteral](context.Background(), nil, "", log.NewNopLogger())

	return newService[clock.VectorLiteral](log.NewNopLogger(), clock.NewVectorClock(id, 2), newStore, crdt.BiasRemove, m)
}

// encode turns msg into one line of input.
func encode(t *testing.T, msg replica.Message[clock.VectorLiteral, interface{}]) string {

	data, err := replica.EncodeMessage(msg)
	require.Nil(t, err)

	return string(data)
}

// TestServe feeds operations and states of one replica
// into serve() and checks the dumped final state.
func TestServe(t *testing.T) {

	source := replica.New[clock.VectorLiteral, interface{}](clock.NewVectorClock(0, 2), newStoreConstructor[clock.VectorLiteral](context.Background(), nil, "", log.NewNopLogger()), crdt.BiasRemove)

	addOp := source.Add("k", "v")
	removeOp := source.Remove("gone")
	source.Add("n", 1.5)
	state := source.State()

	lines := []string{
		encode(t, replica.Message[clock.VectorLiteral, interface{}]{Op: &addOp}),
		"",
		"not json",
		`{}`,
		encode(t, replica.Message[clock.VectorLiteral, interface{}]{Op: &removeOp}),
		encode(t, replica.Message[clock.VectorLiteral, interface{}]{State: &state}),
	}

	var logs bytes.Buffer
	var out bytes.Buffer

	s := newTestService(1, replica.NewMetrics(""))
	err := serve(initLogger(&logs, "debug"), s, strings.NewReader(strings.Join(lines, "\n")), &out)
	require.Nil(t, err)

	assert.ElementsMatch(t, []string{"k", "n"}, s.Keys())
	assert.Equal(t, true, s.IsEqual(source.Object()))

	assert.Contains(t, logs.String(), "skipping malformed message")
	assert.Contains(t, logs.String(), `"line":3`)
	assert.Contains(t, logs.String(), "applied message")

	obj, err := crdt.DecodeObject[clock.VectorLiteral, interface{}](out.Bytes())
	require.Nil(t, err)
	assert.Equal(t, "v", obj.AddSet["k"].Value)
	assert.Equal(t, 1.5, obj.AddSet["n"].Value)
	assert.Contains(t, obj.RemoveSet, "gone")
}

// TestServeLocalCommands drives a replica by local commands
// and replays everything it broadcasts on a second replica.
func TestServeLocalCommands(t *testing.T) {

	lines := []string{
		`{"local":{"name":"add","key":"k","value":"v"}}`,
		`{"local":{"name":"add","key":"n","value":2}}`,
		`{"local":{"name":"update_key","key":"missing","newKey":"m"}}`,
		`{"local":{"name":"update_key","key":"k","newKey":"renamed"}}`,
		`{"local":{"name":"remove","key":"n"}}`,
		`{"local":{"name":"state"}}`,
	}

	var logs bytes.Buffer
	var out bytes.Buffer

	s := newTestService(0, replica.NewMetrics(""))
	require.Nil(t, serve(initLogger(&logs, "debug"), s, strings.NewReader(strings.Join(lines, "\n")), &out))

	assert.Equal(t, []string{"renamed"}, s.Keys())
	assert.Contains(t, logs.String(), "failed to deliver message")

	sent := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, 6, len(sent), "[main.TestServeLocalCommands] expected five broadcasts and the final state")

	other := newTestService(1, replica.NewMetrics(""))

	for _, raw := range sent[:5] {

		msg, err := replica.DecodeMessage[clock.VectorLiteral, interface{}]([]byte(raw))
		require.Nil(t, err)
		assert.Nil(t, msg.Local)

		outgoing, err := replica.Deliver(other, msg)
		require.Nil(t, err)
		assert.Nil(t, outgoing)
	}

	assert.Equal(t, []string{"renamed"}, other.Keys())
	assert.Equal(t, true, other.IsEqual(s.Object()))

	obj, err := crdt.DecodeObject[clock.VectorLiteral, interface{}]([]byte(sent[5]))
	require.Nil(t, err)
	assert.Equal(t, "v", obj.AddSet["renamed"].Value)
}

// TestServeEmpty checks an empty input still yields a
// final state.
func TestServeEmpty(t *testing.T) {

	var out bytes.Buffer

	s := newTestService(0, replica.NewMetrics(""))
	require.Nil(t, serve(log.NewNopLogger(), s, strings.NewReader(""), &out))

	assert.JSONEq(t, `{"addSet":{},"removeSet":{}}`, out.String())
}

// TestRedisBackend runs a replica on top of Redis.
func TestRedisBackend(t *testing.T) {

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()

	conf := &config.Config{
		Replica: config.Replica{ID: 0, Replicas: 1, Clock: "system", OrderByID: true},
		Store:   config.Store{Backend: config.BackendRedis, RedisAddr: mr.Addr(), RedisPrefix: "main"},
	}
	require.Nil(t, conf.Validate())

	client, err := initRedis(ctx, conf, &config.Env{})
	require.Nil(t, err)
	defer client.Close()

	newStore := newStoreConstructor[clock.SystemLiteral](ctx, client, conf.Store.RedisPrefix, log.NewNopLogger())
	s := newService[clock.SystemLiteral](log.NewNopLogger(), clock.NewSystemClock(0), newStore, crdt.BiasRemove, replica.NewMetrics(""))

	s.Add("k", "v")
	value, found := s.Get("k")
	assert.Equal(t, true, found)
	assert.Equal(t, "v", value)

	keys := mr.Keys()
	require.Equal(t, 1, len(keys))
	assert.True(t, strings.HasPrefix(keys[0], "main:"))

	// Unreachable servers are reported.
	mr.RequireAuth("secret")
	_, err = initRedis(ctx, conf, &config.Env{})
	assert.NotNil(t, err)

	authed, err := initRedis(ctx, conf, &config.Env{RedisPassword: "secret"})
	require.Nil(t, err)
	authed.Close()
}

// TestInitLogger checks the level filter of the logger.
func TestInitLogger(t *testing.T) {

	var buf bytes.Buffer

	logger := initLogger(&buf, "warn")
	logger.Log("msg", "unleveled")
	assert.Contains(t, buf.String(), "unleveled")

	buf.Reset()
	s := newTestService(0, replica.NewMetrics(""))
	require.Nil(t, serve(logger, s, strings.NewReader("not json\n"), &bytes.Buffer{}))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"caller"`)
}
