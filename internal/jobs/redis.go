package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"taqrir/config"
	"taqrir/models"
)

const keyPrefix = "taqrir:job:"

// RedisStore keeps job records as JSON values with a TTL, so results
// survive process restarts for as long as the TTL allows.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

func (s *RedisStore) Create(ctx context.Context, id, query string) error {
	now := time.Now()
	return s.put(ctx, Job{ID: id, Query: query, State: StatePending, CreatedAt: now, UpdatedAt: now})
}

func (s *RedisStore) Succeed(ctx context.Context, id string, result models.Report) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.State != StatePending {
		return ErrTerminal
	}
	job.State = StateSuccess
	job.Result = &result
	job.UpdatedAt = time.Now()
	return s.put(ctx, job)
}

func (s *RedisStore) Fail(ctx context.Context, id string, cause error) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.State != StatePending {
		return ErrTerminal
	}
	job.State = StateFailure
	job.Error = cause.Error()
	job.UpdatedAt = time.Now()
	return s.put(ctx, job)
}

func (s *RedisStore) Get(ctx context.Context, id string) (Job, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("redis get: %w", err)
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return Job{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return job, nil
}

func (s *RedisStore) put(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+job.ID, raw, s.ttl).Err()
}
