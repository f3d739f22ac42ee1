package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-pluto/lwwdict/clock"
	"github.com/go-pluto/lwwdict/crdt"
	"github.com/pkg/errors"
)

// Structs

// Config holds all information parsed from
// supplied config file.
type Config struct {
	PrometheusAddr string
	Replica        Replica
	Store          Store
}

// Replica describes the identity of this process
// among all replicas and the clock it stamps with.
type Replica struct {
	ID        int
	Replicas  int
	Clock     string
	OrderByID bool
	Bias      string
}

// Store selects where the add-set and remove-set
// of the dictionary are kept.
type Store struct {
	Backend     string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Backend names of the supported stores.
const (
	BackendMap   = "map"
	BackendRedis = "redis"
)

// Functions

// LoadConfig takes in the path to the config file
// in TOML syntax, places the values from the file in
// the corresponding struct and validates them.
func LoadConfig(configFile string) (*Config, error) {

	// Defaults for values the file may omit.
	conf := &Config{
		Replica: Replica{
			Replicas:  1,
			Clock:     string(clock.KindVector),
			OrderByID: true,
		},
		Store: Store{
			Backend:     BackendMap,
			RedisPrefix: "lwwdict",
		},
	}

	// Parse values from TOML file into struct.
	_, err := toml.DecodeFile(configFile, conf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read in TOML config file at '%s'", configFile)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file '%s'", configFile)
	}

	return conf, nil
}

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {

	if c.Replica.Replicas < 1 {
		return errors.Errorf("number of replicas must be positive, got %d", c.Replica.Replicas)
	}

	if c.Replica.ID < 0 || c.Replica.ID >= c.Replica.Replicas {
		return errors.Errorf("replica id %d outside of [0, %d)", c.Replica.ID, c.Replica.Replicas)
	}

	if _, err := c.Replica.ClockKind(); err != nil {
		return err
	}

	if _, err := c.Replica.ParseBias(); err != nil {
		return err
	}

	switch strings.ToLower(c.Store.Backend) {
	case BackendMap:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("redis store backend requires RedisAddr")
		}
	default:
		return errors.Errorf("unknown store backend '%s'", c.Store.Backend)
	}

	return nil
}

// ClockKind returns the configured clock implementation.
func (r Replica) ClockKind() (clock.Kind, error) {
	return clock.ParseKind(r.Clock)
}

// ParseBias returns the configured presence bias.
func (r Replica) ParseBias() (crdt.Bias, error) {
	return crdt.ParseBias(r.Bias)
}
