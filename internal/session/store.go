// Package session keeps login sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/domain"
)

// ErrNotFound is returned for unknown, expired or revoked sessions.
var ErrNotFound = errors.New("session not found")

const (
	sessionKeyPrefix   = "session:"
	userSessionsPrefix = "user_sessions:"
)

// Store issues, resolves and revokes sessions.
type Store interface {
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each session as a JSON value with a TTL and indexes a
// user's sessions in a sorted set scored by creation time.
type RedisStore struct {
	client     redis.UniversalClient
	ttl        time.Duration
	maxPerUser int
	logger     *zap.Logger
	now        func() time.Time
}

// NewRedisStore builds a store. maxPerUser <= 0 disables the limit.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration, maxPerUser int, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client:     client,
		ttl:        ttl,
		maxPerUser: maxPerUser,
		logger:     logger,
		now:        time.Now,
	}
}

// Create stores a new session for user. When the user already holds the
// maximum number of live sessions the oldest ones are revoked.
func (s *RedisStore) Create(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := s.now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	indexKey := userSessionsPrefix + user.ID
	if err := s.evict(ctx, indexKey); err != nil {
		return nil, err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+sess.ID, payload, s.ttl)
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(now.UnixNano()), Member: sess.ID})
	pipe.Expire(ctx, indexKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Debug("session created", zap.String("user_id", user.ID), zap.String("session_id", sess.ID))
	return sess, nil
}

// evict prunes expired members from the user's index and revokes the
// oldest live sessions so the new one fits under the limit.
func (s *RedisStore) evict(ctx context.Context, indexKey string) error {
	if s.maxPerUser <= 0 {
		return nil
	}
	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, sessionKeyPrefix+id).Result()
		if err != nil {
			return fmt.Errorf("check session: %w", err)
		}
		if exists == 0 {
			s.client.ZRem(ctx, indexKey, id)
			continue
		}
		live = append(live, id)
	}

	overflow := len(live) - s.maxPerUser + 1
	for i := 0; i < overflow; i++ {
		if err := s.Delete(ctx, live[i]); err != nil {
			return err
		}
		s.logger.Info("session evicted", zap.String("session_id", live[i]))
	}
	return nil
}

// Get resolves a live session.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete revokes a session. Unknown ids are not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	pipe.ZRem(ctx, userSessionsPrefix+sess.UserID, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
