package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store keeps one active refresh token per user in Redis. Issuing a new
// refresh token replaces the previous one, so a stolen old token dies as
// soon as the user logs in again.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a new refresh token store
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func refreshKey(userID int) string {
	return fmt.Sprintf("session:refresh:%d", userID)
}

// SaveRefreshToken stores the refresh token for a user with the given TTL
func (s *Store) SaveRefreshToken(ctx context.Context, userID int, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, refreshKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ValidateRefreshToken reports whether the presented token is the user's
// current refresh token
func (s *Store) ValidateRefreshToken(ctx context.Context, userID int, token string) (bool, error) {
	stored, err := s.rdb.Get(ctx, refreshKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read refresh token: %w", err)
	}
	return stored == token, nil
}

// DeleteRefreshToken removes the user's refresh token (logout)
func (s *Store) DeleteRefreshToken(ctx context.Context, userID int) error {
	if err := s.rdb.Del(ctx, refreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}
