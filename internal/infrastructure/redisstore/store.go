package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-otp-api/internal/config"
	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/pkg/clock"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:passcode:"

// Store keeps passcode records in Redis as JSON values with a server-side
// TTL, so expired records are absent by construction and survive nothing
// past their ExpiresAt. Per-identifier serialization is the caller's job;
// the store itself only needs single-key atomicity, which Redis gives.
type Store struct {
	client *redis.Client
	clk    clock.Clocker
}

// New connects to Redis using cfg and verifies the connection with a ping.
func New(ctx context.Context, cfg *config.Config, clk clock.Clocker) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{client: client, clk: clk}, nil
}

// Put stores the record under its identifier with a TTL matching ExpiresAt.
// A record already past its expiry is not written at all.
func (s *Store) Put(ctx context.Context, p *domain.Passcode) error {
	ttl := p.ExpiresAt.Sub(s.clk.Now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal passcode: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+p.Identifier, data, ttl).Err()
}

// Get returns the record for identifier or domain.ErrNotFound once the TTL
// has elapsed or no record was ever written.
func (s *Store) Get(ctx context.Context, identifier string) (*domain.Passcode, error) {
	data, err := s.client.Get(ctx, keyPrefix+identifier).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("passcode for %q: %w", identifier, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var p domain.Passcode
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal passcode: %w", err)
	}
	return &p, nil
}

// Delete removes the record for identifier. Absent keys are not an error.
func (s *Store) Delete(ctx context.Context, identifier string) error {
	return s.client.Del(ctx, keyPrefix+identifier).Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.client.Close() }
