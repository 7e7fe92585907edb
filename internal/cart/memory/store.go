package memory

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/cart"
)

// Store is an in-memory cart store for tests and local development.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*cart.Cart)}
}

func (s *Store) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.carts[sessionID]
	if !ok {
		return cart.New(sessionID), nil
	}
	return clone(stored), nil
}

func (s *Store) Save(ctx context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[c.SessionID] = clone(c)
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func clone(c *cart.Cart) *cart.Cart {
	copied := cart.New(c.SessionID)
	for productID, quantity := range c.Lines {
		copied.Lines[productID] = quantity
	}
	return copied
}
