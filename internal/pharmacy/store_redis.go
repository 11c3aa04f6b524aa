package pharmacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"apotheca/pkg/platform/sentinel"
)

const (
	// Redis key layout: pharmacy documents as JSON values, comment
	// subcollections as hashes keyed by comment ID.
	pharmacyKeyPrefix = "pharmacies:"
	commentsKeySuffix = ":comments"
	pharmacyIndexKey  = "pharmacies"
)

// RedisStore persists pharmacy documents and comment subcollections. Each
// comment is a hash field, so add/delete are single-field writes with the
// store's native per-key atomicity.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func pharmacyKey(id string) string { return pharmacyKeyPrefix + id }
func commentsKey(id string) string { return pharmacyKeyPrefix + id + commentsKeySuffix }

func (s *RedisStore) Save(ctx context.Context, p Pharmacy) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pharmacy: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, pharmacyKey(p.ID), raw, 0)
	pipe.SAdd(ctx, pharmacyIndexKey, p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save pharmacy: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Pharmacy, error) {
	raw, err := s.client.Get(ctx, pharmacyKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Pharmacy{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Pharmacy{}, fmt.Errorf("get pharmacy: %w", err)
	}
	var p Pharmacy
	if err := json.Unmarshal(raw, &p); err != nil {
		return Pharmacy{}, fmt.Errorf("unmarshal pharmacy: %w", err)
	}
	return p, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Pharmacy, error) {
	ids, err := s.client.SMembers(ctx, pharmacyIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list pharmacies: %w", err)
	}
	out := make([]Pharmacy, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, pharmacyKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check pharmacy: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) AddComment(ctx context.Context, pharmacyID string, c Comment) (Comment, error) {
	exists, err := s.Exists(ctx, pharmacyID)
	if err != nil {
		return Comment{}, err
	}
	if !exists {
		return Comment{}, sentinel.ErrNotFound
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return Comment{}, fmt.Errorf("marshal comment: %w", err)
	}
	if err := s.client.HSet(ctx, commentsKey(pharmacyID), c.ID, raw).Err(); err != nil {
		return Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

func (s *RedisStore) GetComment(ctx context.Context, pharmacyID, commentID string) (Comment, error) {
	raw, err := s.client.HGet(ctx, commentsKey(pharmacyID), commentID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Comment{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Comment{}, fmt.Errorf("get comment: %w", err)
	}
	var c Comment
	if err := json.Unmarshal(raw, &c); err != nil {
		return Comment{}, fmt.Errorf("unmarshal comment: %w", err)
	}
	return c, nil
}

func (s *RedisStore) ListComments(ctx context.Context, pharmacyID string) ([]Comment, error) {
	exists, err := s.Exists(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	raw, err := s.client.HGetAll(ctx, commentsKey(pharmacyID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]Comment, 0, len(raw))
	for _, v := range raw {
		var c Comment
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return nil, fmt.Errorf("unmarshal comment: %w", err)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *RedisStore) DeleteComment(ctx context.Context, pharmacyID, commentID string) error {
	n, err := s.client.HDel(ctx, commentsKey(pharmacyID), commentID).Result()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
