// Package redis implements the Login Directory on Redis lists: one list per
// identity, one JSON element per login.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

// Store implements directory.Directory backed by Redis.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

var _ directory.Directory = (*Store)(nil)

// New returns a Store using client.
func New(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// Open connects to addr and pings the server.
func Open(ctx context.Context, addr, password string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return New(client), nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) CreateRecord(ctx context.Context, identity domain.Identity) error {
	data, err := json.Marshal(directory.NewRecord(identity, s.now()))
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, key(identity), data).Err()
}

func (s *Store) Exists(ctx context.Context, identity domain.Identity) (bool, error) {
	n, err := s.client.Exists(ctx, key(identity)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) DeleteRecord(ctx context.Context, identity domain.Identity) (int, error) {
	var length *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.LLen(ctx, key(identity))
		pipe.Del(ctx, key(identity))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(length.Val()), nil
}

func key(identity domain.Identity) string {
	return fmt.Sprint("login:", identity)
}
