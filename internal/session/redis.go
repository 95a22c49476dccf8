package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/cart"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps sessions in redis with a TTL. It is still an ephemeral
// cache: expiry silently resets a cart to the initial state.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// Close closes the redis connection.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (cart.State, error) {
	raw, err := r.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return cart.Initial(), nil
	}
	if err != nil {
		return cart.Initial(), fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var state cart.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return cart.Initial(), fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return state, nil
}

func (r *RedisStore) Put(ctx context.Context, sessionID string, state cart.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}

	if err := r.rdb.Set(ctx, cartKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, cartKey(sessionID)).Err()
}

// AddSubscriber adds an email to the newsletter set, returning true when
// it was not already present.
func (r *RedisStore) AddSubscriber(ctx context.Context, email string) (bool, error) {
	added, err := r.rdb.SAdd(ctx, "newsletter:subscribers", email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record subscriber: %w", err)
	}
	return added > 0, nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
