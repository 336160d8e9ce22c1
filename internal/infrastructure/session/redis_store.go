package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"archie-core-facebook-layer/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps OAuth sessions in Redis with a TTL matching their expiry
type RedisSessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisSessionStore creates a Redis backed session store
func NewRedisSessionStore(client redis.UniversalClient, prefix string) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *domain.OAuthSession) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.State)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+session.State, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, state string) (*domain.OAuthSession, error) {
	payload, err := s.client.Get(ctx, s.prefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.OAuthSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, nil
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, state string) error {
	if err := s.client.Del(ctx, s.prefix+state).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
