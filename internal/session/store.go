package session

import (
	"context"
	"sync"

	"storefront-service/internal/cart"
)

// Store holds cart state keyed by session id. An unknown session yields
// the initial empty state, not an error. Implementations make no
// durability promise; sessions are ephemeral by design.
type Store interface {
	Get(ctx context.Context, sessionID string) (cart.State, error)
	Put(ctx context.Context, sessionID string, state cart.State) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in process memory. The mutex only isolates
// distinct sessions sharing the map; each cart still has a single owner.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]cart.State
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]cart.State)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (cart.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.carts[sessionID]
	if !ok {
		return cart.Initial(), nil
	}
	return state, nil
}

func (m *MemoryStore) Put(_ context.Context, sessionID string, state cart.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.carts[sessionID] = state
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, sessionID)
	return nil
}
