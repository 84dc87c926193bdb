package status

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "renderjob:"

type RedisStore struct {
	rdb *goredis.Client
}

// NewRedisStore dials redis and verifies the connection.
func NewRedisStore(addr string) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) Put(ctx context.Context, jobID string, st State, ttl time.Duration) error {
	buf, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+jobID, buf, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, jobID string) (State, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+jobID).Bytes()
	if err == goredis.Nil {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, false, err
	}
	return st, true, nil
}

// Merge reads, patches, and writes back keeping the remaining TTL. Jobs are
// owned by a single worker at a time, so concurrent merges on one key do not
// occur; a plain read-modify-write suffices.
func (s *RedisStore) Merge(ctx context.Context, jobID string, patch Patch) error {
	st, ok, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("job %s: state expired", jobID)
	}
	patch.apply(&st)
	buf, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+jobID, buf, goredis.KeepTTL).Err()
}
