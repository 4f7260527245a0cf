package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/escolar/admin-console/internal/config"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

const keyPrefix = "console:session:"

var ErrNotFound = ports.ErrSessionNotFound

// RedisStore keeps sessions in Redis under a random id with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		cb:     config.NewCircuitBreaker("Redis-Sessions"),
	}
}

func (s *RedisStore) Save(ctx context.Context, sess domain.Session) (string, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err()
	})
	if err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return id, nil
}

// Load returns the session for id and extends its expiry.
func (s *RedisStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	result, err := s.cb.Execute(func() (interface{}, error) {
		data, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
		if errors.Is(err, redis.Nil) {
			// a missing key is not a Redis failure
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	data, _ := result.([]byte)
	if data == nil {
		return nil, ErrNotFound
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, keyPrefix+id).Err()
	})
	return err
}

// Ping reports whether Redis is reachable; the health handler uses it.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
