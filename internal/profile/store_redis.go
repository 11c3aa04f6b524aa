package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"apotheca/pkg/platform/sentinel"
)

const (
	// Redis key prefix for profile documents
	profileKeyPrefix = "users:"

	// maxMutateRetries bounds the optimistic-concurrency retry loop in
	// MutateFavorites.
	maxMutateRetries = 5
)

// RedisStore persists profile documents as JSON values. This is the
// recommended implementation for distributed deployments where multiple
// instances mutate the same profiles; MutateFavorites uses WATCH/MULTI so a
// concurrent write restarts the read-modify-write instead of losing it.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func profileKey(uid string) string { return profileKeyPrefix + uid }

func (s *RedisStore) Set(ctx context.Context, p Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	ok, err := s.client.SetNX(ctx, profileKey(p.UID), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("set profile: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, uid string) (Profile, error) {
	raw, err := s.client.Get(ctx, profileKey(uid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Profile{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

func (s *RedisStore) SetLastPasswordReset(ctx context.Context, uid string, at time.Time) error {
	_, err := s.mutate(ctx, uid, func(p *Profile) error {
		p.LastPasswordReset = at
		return nil
	})
	return err
}

func (s *RedisStore) MutateFavorites(ctx context.Context, uid string, fn func(current []string) ([]string, error)) ([]string, error) {
	p, err := s.mutate(ctx, uid, func(p *Profile) error {
		current := make([]string, len(p.Favorites))
		copy(current, p.Favorites)
		next, err := fn(current)
		if err != nil {
			return err
		}
		p.Favorites = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Favorites, nil
}

// mutate runs a read-modify-write on a profile document under WATCH. A
// concurrent write to the same key fails the MULTI/EXEC and the loop
// retries with fresh state.
func (s *RedisStore) mutate(ctx context.Context, uid string, apply func(p *Profile) error) (Profile, error) {
	key := profileKey(uid)
	var result Profile

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		var p Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("unmarshal profile: %w", err)
		}
		if err := apply(&p); err != nil {
			return err
		}

		next, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = p
		return nil
	}

	for i := 0; i < maxMutateRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return Profile{}, err
	}
	return Profile{}, fmt.Errorf("mutate profile %s: too many concurrent writes", uid)
}
