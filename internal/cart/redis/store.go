package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront/internal/cart"
)

const keyPrefix = "storefront:cart:"

// Store keeps carts in Redis as JSON blobs with a sliding TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cart %s: %w", sessionID, err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding cart %s: %w", sessionID, err)
	}
	if c.Lines == nil {
		c.Lines = make(map[int64]int)
	}
	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cart %s: %w", c.SessionID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+c.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving cart %s: %w", c.SessionID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("deleting cart %s: %w", sessionID, err)
	}
	return nil
}
