package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/cacheables/key"
)

// DefaultQueryTimeout bounds each Redis operation so a slow or
// unresponsive server cannot hang a cache call indefinitely.
const DefaultQueryTimeout = 5 * time.Second

// DefaultRedisPrefix namespaces all keys written by a RedisStore.
const DefaultRedisPrefix = "cacheables"

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key namespace. Defaults to DefaultRedisPrefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithQueryTimeout sets the per-operation timeout. Defaults to
// DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.queryTimeout = d }
}

// RedisStore keeps one hash per input key
// (<prefix>:functions:<function-id>:inputs:<input-id>, fields "output"
// and "metadata"). Records have no TTL; eviction is explicit, matching
// the disk layout's semantics. The caller owns the client's lifecycle.
type RedisStore struct {
	client       *redis.Client
	prefix       string
	queryTimeout time.Duration
}

// NewRedis returns a store backed by the given client.
func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:       client,
		prefix:       DefaultRedisPrefix,
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.queryTimeout)
}

func (s *RedisStore) inputKey(ik key.InputKey) string {
	return s.prefix + ":functions:" + ik.FunctionID + ":inputs:" + ik.InputID
}

func (s *RedisStore) inputPattern(fk key.FunctionKey) string {
	return s.prefix + ":functions:" + fk.FunctionID + ":inputs:*"
}

func (s *RedisStore) Exists(ctx context.Context, ik key.InputKey) (bool, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	n, err := s.client.Exists(qctx, s.inputKey(ik)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Read(ctx context.Context, ik key.InputKey) ([]byte, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	k := s.inputKey(ik)
	output, err := s.client.HGet(qctx, k, "output").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, ik.FunctionID, ik.InputID)
	}
	if err != nil {
		return nil, err
	}
	// Access tracking is best effort; a failed touch never fails a read.
	if meta, err := s.ReadMetadata(ctx, ik); err == nil {
		meta.Touch(time.Now())
		if data, err := meta.encode(); err == nil {
			s.client.HSet(qctx, k, "metadata", data)
		}
	}
	return output, nil
}

func (s *RedisStore) ReadMetadata(ctx context.Context, ik key.InputKey) (Metadata, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	data, err := s.client.HGet(qctx, s.inputKey(ik), "metadata").Bytes()
	if errors.Is(err, redis.Nil) {
		return Metadata{}, fmt.Errorf("%w: %s/%s", ErrNotFound, ik.FunctionID, ik.InputID)
	}
	if err != nil {
		return Metadata{}, err
	}
	return decodeMetadata(data)
}

func (s *RedisStore) Write(ctx context.Context, ik key.InputKey, output []byte, meta Metadata) error {
	data, err := meta.encode()
	if err != nil {
		return err
	}
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	// HSET replaces both fields atomically enough for last-write-wins.
	return s.client.HSet(qctx, s.inputKey(ik), "output", output, "metadata", data).Err()
}

func (s *RedisStore) Evict(ctx context.Context, ik key.InputKey) error {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	return s.client.Del(qctx, s.inputKey(ik)).Err()
}

func (s *RedisStore) Clear(ctx context.Context, fk key.FunctionKey) error {
	keys, err := s.scan(ctx, s.inputPattern(fk))
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()
	return s.client.Del(qctx, keys...).Err()
}

func (s *RedisStore) List(ctx context.Context, fk key.FunctionKey) ([]key.InputKey, error) {
	raw, err := s.scan(ctx, s.inputPattern(fk))
	if err != nil {
		return nil, err
	}
	marker := ":inputs:"
	keys := make([]key.InputKey, 0, len(raw))
	for _, k := range raw {
		idx := strings.LastIndex(k, marker)
		if idx < 0 {
			continue
		}
		keys = append(keys, key.InputKey{
			FunctionID: fk.FunctionID,
			InputID:    k[idx+len(marker):],
		})
	}
	return keys, nil
}

func (s *RedisStore) Adopt(ctx context.Context, from, to key.FunctionKey) error {
	keys, err := s.List(ctx, from)
	if err != nil {
		return err
	}
	for _, ik := range keys {
		src := s.inputKey(ik)
		dst := s.inputKey(key.InputKey{FunctionID: to.FunctionID, InputID: ik.InputID})
		qctx, cancel := s.queryCtx(ctx)
		err := s.client.Rename(qctx, src, dst).Err()
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) OutputPath(ctx context.Context, ik key.InputKey) (string, error) {
	meta, err := s.ReadMetadata(ctx, ik)
	if err != nil {
		return "", err
	}
	ext := meta.Codec.Extension
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("redis://%s/%s.%s", s.inputKey(ik), meta.OutputID, ext), nil
}

func (s *RedisStore) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		qctx, cancel := s.queryCtx(ctx)
		batch, next, err := s.client.Scan(qctx, cursor, pattern, 256).Result()
		cancel()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

var _ Store = (*RedisStore)(nil)
