package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"mooreweb/internal/models"
)

// ErrNoSession is returned when a session id has no stored token, meaning
// the visitor is anonymous.
var ErrNoSession = errors.New("no session")

// Store holds the auth token and cached profile for a visitor session.
// It is the only process-wide mutable state in the portal: read by every
// authenticated call, written only on login, logout and 401 handling.
type Store interface {
	SetToken(ctx context.Context, sessionID, token string) error
	Token(ctx context.Context, sessionID string) (string, error)
	SetUser(ctx context.Context, sessionID string, user *models.ApplicationUser) error
	User(ctx context.Context, sessionID string) (*models.ApplicationUser, error)
	Clear(ctx context.Context, sessionID string) error
	ClearByToken(ctx context.Context, token string) error
}

// NewSessionID mints the opaque id carried in the session cookie.
func NewSessionID() string {
	return uuid.New().String()
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore persists sessions in redis so tokens survive restarts and the
// portal can run multiple replicas behind one cookie.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(cfg Config) (*RedisStore, error) {
	if cfg.TTL == 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: rdb, ttl: cfg.TTL}, nil
}

func tokenKey(sessionID string) string { return "mhs:session:" + sessionID + ":token" }
func userKey(sessionID string) string  { return "mhs:session:" + sessionID + ":user" }
func reverseKey(token string) string   { return "mhs:token:" + token }

func (s *RedisStore) SetToken(ctx context.Context, sessionID, token string) error {
	if token == "" {
		return s.Clear(ctx, sessionID)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(sessionID), token, s.ttl)
	// Reverse index so a 401 can clear the session knowing only the token.
	pipe.Set(ctx, reverseKey(token), sessionID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

func (s *RedisStore) Token(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, tokenKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("session lookup error: %w", err)
	}
	return token, nil
}

func (s *RedisStore) SetUser(ctx context.Context, sessionID string, user *models.ApplicationUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.client.Set(ctx, userKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}
	return nil
}

func (s *RedisStore) User(ctx context.Context, sessionID string) (*models.ApplicationUser, error) {
	payload, err := s.client.Get(ctx, userKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session lookup error: %w", err)
	}

	var user models.ApplicationUser
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}
	return &user, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	token, err := s.client.Get(ctx, tokenKey(sessionID)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("session lookup error: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tokenKey(sessionID), userKey(sessionID))
	if token != "" {
		pipe.Del(ctx, reverseKey(token))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearByToken(ctx context.Context, token string) error {
	sessionID, err := s.client.Get(ctx, reverseKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("session lookup error: %w", err)
	}
	return s.Clear(ctx, sessionID)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
