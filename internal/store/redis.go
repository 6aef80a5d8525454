package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const keyPrefix = "scaling-advisor"

// RedisStore shares the latest records between advisor instances.
type RedisStore struct {
	mu      sync.RWMutex
	client  *redis.Client
	ttl     time.Duration
	history int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	History  int
}

func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if cfg.DB < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.History <= 0 {
		cfg.History = DefaultHistory
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client, ttl: cfg.TTL, history: cfg.History}, nil
}

func latestKey(ref models.DeploymentRef) string {
	return fmt.Sprintf("%s:latest:%s", keyPrefix, ref.Key())
}

func historyKey(ref models.DeploymentRef) string {
	return fmt.Sprintf("%s:history:%s", keyPrefix, ref.Key())
}

func (r *RedisStore) Put(ctx context.Context, rec models.AuditRecord) error {
	if err := validate(rec); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	hk := historyKey(rec.Deployment)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, latestKey(rec.Deployment), data, r.ttl)
		pipe.LPush(ctx, hk, data)
		pipe.LTrim(ctx, hk, 0, int64(r.history-1))
		pipe.Expire(ctx, hk, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store audit record in redis: %w", err)
	}
	return nil
}

func (r *RedisStore) GetLatest(ctx context.Context, ref models.DeploymentRef) (models.AuditRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := r.client.Get(ctx, latestKey(ref)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.AuditRecord{}, false, nil
		}
		return models.AuditRecord{}, false, fmt.Errorf("failed to get audit record from redis: %w", err)
	}

	var rec models.AuditRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.AuditRecord{}, false, fmt.Errorf("failed to unmarshal audit record: %w", err)
	}
	return rec, true, nil
}

func (r *RedisStore) Recent(ctx context.Context, ref models.DeploymentRef, limit int) ([]models.AuditRecord, error) {
	if limit <= 0 {
		return []models.AuditRecord{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.client.LRange(ctx, historyKey(ref), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit history from redis: %w", err)
	}

	out := make([]models.AuditRecord, 0, len(items))
	for _, item := range items {
		var rec models.AuditRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.client == nil {
		return redis.ErrClosed
	}
	return r.client.Ping(ctx).Err()
}

// Close is safe to call more than once.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
