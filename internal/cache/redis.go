// internal/cache/redis.go
package cache

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldValue    = "v"
	fieldStoredAt = "t"
)

// RedisStore shares cached list bodies between server instances. Each entry
// is a hash holding the body and its load time in unix nanoseconds.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
	closed    atomic.Bool
}

type RedisStoreOptions struct {
	URL    string
	Prefix string

	// Retention is how long Redis keeps an entry. It must outlive the cache
	// TTL so stale bodies stay available for the error fallback.
	Retention time.Duration

	ConnectTimeout time.Duration
}

func NewRedisStore(opts RedisStoreOptions) (*RedisStore, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	if opts.Retention <= 0 {
		opts.Retention = 24 * time.Hour
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{
		client:    client,
		prefix:    opts.Prefix,
		retention: opts.Retention,
	}, nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + "cache:" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	if s.closed.Load() {
		return Entry{}, false, ErrStoreClosed
	}

	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return Entry{}, false, err
	}
	value, ok := fields[fieldValue]
	if !ok {
		return Entry{}, false, nil
	}

	nanos, err := strconv.ParseInt(fields[fieldStoredAt], 10, 64)
	if err != nil {
		// Treat a malformed entry as a miss; the next load overwrites it.
		return Entry{}, false, nil
	}

	return Entry{Value: []byte(value), StoredAt: time.Unix(0, nanos)}, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	k := s.key(key)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, k, fieldValue, entry.Value, fieldStoredAt, strconv.FormatInt(entry.StoredAt.UnixNano(), 10))
	pipe.Expire(ctx, k, s.retention)
	_, err := pipe.Exec(ctx)
	return err
}

// Clear removes every cache entry under the prefix using SCAN + DEL.
func (s *RedisStore) Clear(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	var cursor uint64
	pattern := s.prefix + "cache:*"

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}
