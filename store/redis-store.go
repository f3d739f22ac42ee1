package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// Variables

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Structs

// RedisStore keeps all items of one store in a single
// Redis hash, one field per element key. Items travel
// through JSON, so values should be JSON-native types.
//
// Store operations are total: a failing Redis command is
// logged, remembered for Err() and treated like an absent
// item by reads.
type RedisStore[T any] struct {
	lock    *sync.Mutex
	ctx     context.Context
	client  redis.UniversalClient
	hash    string
	logger  log.Logger
	lastErr error
}

// Functions

// NewRedisStore returns a store backed by the Redis hash
// named hash. Existing fields of that hash become the
// initial contents of the store.
func NewRedisStore[T any](ctx context.Context, client redis.UniversalClient, hash string, logger log.Logger) *RedisStore[T] {

	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &RedisStore[T]{
		lock:   &sync.Mutex{},
		ctx:    ctx,
		client: client,
		hash:   hash,
		logger: log.With(logger, "store", "redis", "hash", hash),
	}
}

// RedisConstructor returns a Constructor allocating a
// fresh hash named "<prefix>:<uuid>" for every store.
func RedisConstructor[T any](ctx context.Context, client redis.UniversalClient, prefix string, logger log.Logger) Constructor[T] {

	return func() Store[T] {
		hash := fmt.Sprintf("%s:%s", prefix, uuid.NewV4().String())
		return NewRedisStore[T](ctx, client, hash, logger)
	}
}

// Hash returns the name of the backing Redis hash.
func (s *RedisStore[T]) Hash() string {
	return s.hash
}

// Err returns the most recent Redis or encoding failure.
func (s *RedisStore[T]) Err() error {

	s.lock.Lock()
	defer s.lock.Unlock()

	return s.lastErr
}

// fail records and logs err for operation op.
func (s *RedisStore[T]) fail(op string, key string, err error) {

	err = errors.Wrapf(err, "redis store %s of key '%s' failed", op, key)

	s.lock.Lock()
	s.lastErr = err
	s.lock.Unlock()

	level.Error(s.logger).Log(
		"msg", "redis store operation failed",
		"op", op,
		"key", key,
		"err", err,
	)
}

func (s *RedisStore[T]) Get(key string) (T, bool) {

	var item T

	raw, err := s.client.HGet(s.ctx, s.hash, key).Result()
	if err == redis.Nil {
		return item, false
	} else if err != nil {
		s.fail("get", key, err)
		return item, false
	}

	if err := json.UnmarshalFromString(raw, &item); err != nil {
		s.fail("decode", key, err)
		var zero T
		return zero, false
	}

	return item, true
}

func (s *RedisStore[T]) Has(key string) bool {

	found, err := s.client.HExists(s.ctx, s.hash, key).Result()
	if err != nil {
		s.fail("has", key, err)
		return false
	}

	return found
}

func (s *RedisStore[T]) Keys() []string {

	keys, err := s.client.HKeys(s.ctx, s.hash).Result()
	if err != nil {
		s.fail("keys", "", err)
		return []string{}
	}

	return keys
}

func (s *RedisStore[T]) Remove(key string) bool {

	n, err := s.client.HDel(s.ctx, s.hash, key).Result()
	if err != nil {
		s.fail("remove", key, err)
		return false
	}

	return n > 0
}

func (s *RedisStore[T]) Reset() {

	if err := s.client.Del(s.ctx, s.hash).Err(); err != nil {
		s.fail("reset", "", err)
	}
}

func (s *RedisStore[T]) Set(key string, item T) {

	raw, err := json.MarshalToString(item)
	if err != nil {
		s.fail("encode", key, err)
		return
	}

	if err := s.client.HSet(s.ctx, s.hash, key, raw).Err(); err != nil {
		s.fail("set", key, err)
	}
}
