package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	platformredis "profilr/internal/platform/redis"
	"profilr/internal/review/models"
)

// RedisStore keeps each review as a JSON string under "<prefix>:<id>" and
// orders them with the sorted set "<prefix>:index", scored by creation time in
// unix microseconds. Members are UUIDv7 strings, so equal scores still sort
// by insertion.
type RedisStore struct {
	client *platformredis.Client
	prefix string
}

// NewRedis constructs a Redis-backed review store.
func NewRedis(client *platformredis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":index"
}

func (s *RedisStore) reviewKey(id string) string {
	return s.prefix + ":" + id
}

func (s *RedisStore) List(ctx context.Context) ([]*models.Review, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list review ids: %w", err)
	}
	out := make([]*models.Review, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.reviewKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a document; skip rather than fail the listing.
			continue
		}
		var r models.Review
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode review %s: %w", ids[i], err)
		}
		out = append(out, &r)
	}
	return out, nil
}

func (s *RedisStore) Insert(ctx context.Context, review *models.Review) (*models.Review, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate review id: %w", err)
	}
	stored := *review
	stored.ID = id.String()
	stored.CreatedAt = ceilTime(review.CreatedAt, time.Microsecond).UTC()

	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal review: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.reviewKey(stored.ID), payload, 0)
		pipe.ZAdd(ctx, s.indexKey(), goredis.Z{
			Score:  float64(stored.CreatedAt.UnixMicro()),
			Member: stored.ID,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return &stored, nil
}

func (s *RedisStore) Close(_ context.Context) error {
	return s.client.Close()
}

