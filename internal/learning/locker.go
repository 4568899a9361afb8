package learning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker guards a learning cycle across processes
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// MemoryLocker is a process-local Locker
type MemoryLocker struct {
	mu     sync.Mutex
	locked bool
}

func (l *MemoryLocker) TryLock(context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		return false, nil
	}
	l.locked = true
	return true, nil
}

func (l *MemoryLocker) Unlock(context.Context) error {
	l.mu.Lock()
	l.locked = false
	l.mu.Unlock()
	return nil
}

const DefaultLockKey = "summarizer:learning:cycle"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a SET NX lease so only one replica runs a cycle
type RedisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	token  string
}

// NewRedisLocker creates a lock on key that expires after ttl if never released
func NewRedisLocker(client *redis.Client, key string, ttl time.Duration) *RedisLocker {
	if key == "" {
		key = DefaultLockKey
	}
	return &RedisLocker{client: client, key: key, ttl: ttl, token: uuid.New().String()}
}

func (l *RedisLocker) TryLock(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	return ok, nil
}

func (l *RedisLocker) Unlock(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	return nil
}
