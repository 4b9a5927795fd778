package cascade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const jobKeyPrefix = "cascade:job:"

// RedisStore keeps records as JSON values that expire after ttl.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func jobKey(id string) string { return jobKeyPrefix + id }

func (s *RedisStore) Save(ctx context.Context, r *Record) error {
	if r == nil || r.JobID == "" {
		return fmt.Errorf("record with jobId is required")
	}
	touch(r)
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, jobKey(r.JobID), payload, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, jobID string) (*Record, error) {
	data, err := s.rdb.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
