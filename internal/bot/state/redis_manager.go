package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

const (
	stateTTL     = 24 * time.Hour
	redisTimeout = 3 * time.Second
)

// RedisManager keeps conversation state in Redis so it survives restarts
// and is shared between replicas
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager wraps an already connected client
func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func stateKey(userID int64) string { return fmt.Sprintf("user:%d:state", userID) }
func tempKey(userID int64) string  { return fmt.Sprintf("user:%d:temp", userID) }

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisTimeout)
}

// SetUserState sets the state for a user with TTL
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := withTimeout()
	defer cancel()

	var err error
	if state == None {
		err = m.client.Del(ctx, stateKey(userID)).Err()
	} else {
		// inactive conversations expire on their own
		err = m.client.Set(ctx, stateKey(userID), state, stateTTL).Err()
	}
	if err != nil {
		logger.Warn("Failed to store user state", "telegram_id", userID, "state", state, "error", err)
	}
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := withTimeout()
	defer cancel()

	val, err := m.client.Get(ctx, stateKey(userID)).Result()
	if err == redis.Nil {
		return None
	}
	if err != nil {
		logger.Warn("Failed to read user state", "telegram_id", userID, "error", err)
		return None
	}
	return val
}

// SetTempData sets temporary data for a user
func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx, cancel := withTimeout()
	defer cancel()

	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("Failed to store temp data", "telegram_id", userID, "key", key, "error", err)
	}
}

// GetTempData gets temporary data for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx, cancel := withTimeout()
	defer cancel()

	val, err := m.client.HGet(ctx, tempKey(userID), key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to read temp data", "telegram_id", userID, "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

// ClearTempData clears all temporary data for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := withTimeout()
	defer cancel()
	m.client.Del(ctx, tempKey(userID))
}
