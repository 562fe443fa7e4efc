package adapter

import (
	"context"
	"fmt"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/util"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLockAdapter implements domain.Locker with SET NX on a shared Redis,
// serializing snapshot replacement across instances.
type RedisLockAdapter struct {
	client   redis.Cmdable
	newToken func() string
}

func NewRedisLockAdapter(client redis.Cmdable) domain.Locker {
	return &RedisLockAdapter{client: client, newToken: util.NewULID}
}

func (r *RedisLockAdapter) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := r.newToken()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		n, err := r.client.Eval(ctx, releaseScript, []string{key}, token).Int64()
		if err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		if n == 0 {
			return fmt.Errorf("lock %s expired before release", key)
		}
		return nil
	}
	return release, true, nil
}
