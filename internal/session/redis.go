package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	keyPrefix  = "checkout:session:"
	lockPrefix = "checkout:lock:"

	// A submission never legitimately takes longer than this
	lockTTL = time.Minute
)

// unlockScript deletes the lock only while it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps sessions in Redis with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func lockKey(id string) string {
	return lockPrefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*checkout.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, &errors.ErrNotFound{Resource: "checkout session", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get checkout session", zap.String("session_id", id), zap.Error(err))
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s checkout.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *checkout.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, lockKey(id), token, lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, &errors.ErrSessionLocked{SessionID: id}
	}

	return func() {
		released, err := unlockScript.Run(context.Background(), r.client, []string{lockKey(id)}, token).Int()
		if err != nil {
			r.logger.Warn("Failed to release checkout lock", zap.String("session_id", id), zap.Error(err))
			return
		}
		if released == 0 {
			r.logger.Warn("Checkout lock expired before release", zap.String("session_id", id))
		}
	}, nil
}

// Ping checks that Redis is reachable
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
