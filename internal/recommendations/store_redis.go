package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "recommendations:"

// RedisStore implements Store with one JSON value per ticket.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisStore parses url and verifies the connection.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{Client: client, TTL: ttl}, nil
}

// Replace overwrites the ticket's recommendations. A zero TTL keeps them indefinitely.
func (s *RedisStore) Replace(ctx context.Context, ticketID string, recs []Recommendation) error {
	payload, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	if err := s.Client.Set(ctx, redisKeyPrefix+ticketID, payload, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", ticketID, err)
	}
	return nil
}

// Get returns the ticket's recommendations.
func (s *RedisStore) Get(ctx context.Context, ticketID string) ([]Recommendation, error) {
	raw, err := s.Client.Get(ctx, redisKeyPrefix+ticketID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", ticketID, err)
	}
	var recs []Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return recs, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.Client.Close()
}

// PingContext reports whether Redis is reachable.
func (s *RedisStore) PingContext(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
