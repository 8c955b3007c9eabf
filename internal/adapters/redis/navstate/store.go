package navstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tourvisto/trip-admin-api/internal/domain"
	"github.com/tourvisto/trip-admin-api/internal/ports/out/navstate"
)

const keyPrefix = "navstate:"

// Store keeps navigation payloads in redis as JSON with a per-key TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(id domain.TransitionID) string {
	return keyPrefix + string(id)
}

func (s *Store) Put(ctx context.Context, id domain.TransitionID, p navstate.Payload) error {
	const op = "redis.navstate.Put"

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}
	if err := s.client.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.TransitionID) (navstate.Payload, error) {
	const op = "redis.navstate.Get"

	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return navstate.Payload{}, navstate.ErrNotFound
	}
	if err != nil {
		return navstate.Payload{}, fmt.Errorf("%s: %w", op, err)
	}

	var p navstate.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return navstate.Payload{}, fmt.Errorf("%s: unmarshal: %w", op, err)
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id domain.TransitionID) error {
	const op = "redis.navstate.Delete"

	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
