package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-pluto/lwwdict/clock"
	"github.com/go-pluto/lwwdict/config"
	"github.com/go-pluto/lwwdict/crdt"
	"github.com/go-pluto/lwwdict/replica"
	"github.com/go-pluto/lwwdict/store"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Functions

// initLogger initializes a JSON gokit-logger set
// to the according log level supplied via cli flag.
func initLogger(w io.Writer, loglevel string) log.Logger {

	logger := log.NewJSONLogger(log.NewSyncWriter(w))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	switch strings.ToLower(loglevel) {
	case "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowDebug())
	}

	return logger
}

// initRedis connects to the Redis server named in the
// config and makes sure it is reachable.
func initRedis(ctx context.Context, conf *config.Config, env *config.Env) (*redis.Client, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Store.RedisAddr,
		Password: env.RedisPassword,
		DB:       conf.Store.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "failed to reach redis at '%s'", conf.Store.RedisAddr)
	}

	return client, nil
}

// newStoreConstructor returns the constructor of the
// configured store backend. A nil client selects the
// in-memory backend.
func newStoreConstructor[L any](ctx context.Context, client redis.UniversalClient, prefix string, logger log.Logger) store.Constructor[crdt.Item[L, interface{}]] {

	if client == nil {
		return store.MapConstructor[crdt.Item[L, interface{}]]()
	}

	return store.RedisConstructor[crdt.Item[L, interface{}]](ctx, client, prefix, log.With(logger, "component", "store"))
}

// newService builds the replica and wraps it with the
// logging and metrics layers.
func newService[L any](logger log.Logger, c clock.Clock[L], newStore store.Constructor[crdt.Item[L, interface{}]], bias crdt.Bias, m *replica.Metrics) replica.Service[L, interface{}] {

	var s replica.Service[L, interface{}]

	s = replica.New[L, interface{}](c, newStore, bias)
	s = replica.NewLoggingService(s, log.With(logger, "component", "replica"))
	s = replica.NewMetricsService(s, m)

	return s
}

// serve applies every message read line by line from in
// to s. Operations and states received from other replicas
// are merged, local commands are executed and the message
// they produce for broadcasting is written to out as one
// line. Malformed messages are logged and skipped. Once in
// is exhausted the final state of the dictionary is written
// to out.
func serve[L any](logger log.Logger, s replica.Service[L, interface{}], in io.Reader, out io.Writer) error {

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0

	for scanner.Scan() {

		line++

		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		msg, err := replica.DecodeMessage[L, interface{}]([]byte(raw))
		if err != nil {
			level.Warn(logger).Log("msg", "skipping malformed message", "line", line, "err", err)
			continue
		}

		outgoing, err := replica.Deliver(s, msg)
		if err != nil {
			level.Warn(logger).Log("msg", "failed to deliver message", "line", line, "err", err)
			continue
		}

		if outgoing != nil {

			data, err := replica.EncodeMessage(*outgoing)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(out, string(data)); err != nil {
				return errors.Wrap(err, "failed writing message to broadcast")
			}
		}

		level.Info(logger).Log("msg", "applied message", "line", line, "keys", strings.Join(s.Keys(), ","))
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed reading replication messages")
	}

	data, err := crdt.EncodeObject(s.Object())
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return errors.Wrap(err, "failed writing final state")
	}

	return nil
}

// run wires a replica stamping with c and serves stdin.
func run[L any](ctx context.Context, logger log.Logger, conf *config.Config, client redis.UniversalClient, c clock.Clock[L], m *replica.Metrics) error {

	bias, err := conf.Replica.ParseBias()
	if err != nil {
		return err
	}

	newStore := newStoreConstructor[L](ctx, client, conf.Store.RedisPrefix, logger)
	s := newService(logger, c, newStore, bias, m)

	level.Info(logger).Log(
		"msg", "replica ready",
		"replica", s.ID(),
		"replicas", conf.Replica.Replicas,
		"clock", conf.Replica.Clock,
		"bias", bias,
		"store", conf.Store.Backend,
	)

	return serve(logger, s, os.Stdin, os.Stdout)
}

func main() {

	// Set CPUs usable by lwwdict to all available.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Parse command-line flags.
	configFlag := flag.String("config", "config.toml", "Provide path to configuration file in TOML syntax.")
	envFlag := flag.String("env", "", "Provide path to an .env file holding secrets, for example REDIS_PASSWORD.")
	loglevelFlag := flag.String("loglevel", "debug", "This flag sets the default logging level.")
	flag.Parse()

	// Log to stderr, stdout carries messages to broadcast
	// and the final state.
	logger := initLogger(os.Stderr, *loglevelFlag)

	// Read configuration from file.
	conf, err := config.LoadConfig(*configFlag)
	if err != nil {
		level.Error(logger).Log("msg", "failed to load the config", "err", err)
		os.Exit(1)
	}

	env := &config.Env{}
	if *envFlag != "" {

		env, err = config.LoadEnv(*envFlag)
		if err != nil {
			level.Error(logger).Log("msg", "failed to load the env file", "err", err)
			os.Exit(2)
		}
	}

	ctx := context.Background()

	var client redis.UniversalClient
	if strings.ToLower(conf.Store.Backend) == config.BackendRedis {

		rc, err := initRedis(ctx, conf, env)
		if err != nil {
			level.Error(logger).Log("msg", "failed to initialize redis store", "err", err)
			os.Exit(3)
		}
		defer rc.Close()

		client = rc
	}

	m := replica.NewMetrics(conf.PrometheusAddr)
	go runPromHTTP(logger, conf.PrometheusAddr)

	opts := []clock.Option{clock.WithOrderByID(conf.Replica.OrderByID)}

	// The configuration has been validated, so the
	// kind is one of the known ones.
	kind, _ := conf.Replica.ClockKind()

	switch kind {
	case clock.KindSystem:
		err = run[clock.SystemLiteral](ctx, logger, conf, client, clock.NewSystemClock(conf.Replica.ID, opts...), m)
	default:
		err = run[clock.VectorLiteral](ctx, logger, conf, client, clock.NewVectorClock(conf.Replica.ID, conf.Replica.Replicas, opts...), m)
	}

	if err != nil {
		level.Error(logger).Log("msg", "replica stopped with error", "err", err)
		os.Exit(4)
	}
}
