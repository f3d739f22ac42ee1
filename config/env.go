package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Structs

// Env holds information specific to the
// system the replica is deployed on. Use the
// .env file to populate secrets.
type Env struct {
	RedisPassword string
}

// Functions

// LoadEnv reads in all values defined in the supplied
// .env file. Variables already set in the environment
// take precedence.
func LoadEnv(envFile string) (*Env, error) {

	// Load environment file.
	err := godotenv.Load(envFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read in .env file at '%s'", envFile)
	}

	env := new(Env)

	// Fill variables from .env into struct.
	env.RedisPassword = os.Getenv("REDIS_PASSWORD")

	return env, nil
}
