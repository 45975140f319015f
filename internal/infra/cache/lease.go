package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLeaseHeld is returned when another holder owns the lease.
var ErrLeaseHeld = errors.New("lease held by another process")

// releaseScript deletes the key only when it still carries our token, so an
// expired lease picked up by someone else is never removed by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease is a Redis-backed mutual exclusion lock with a TTL (SET NX PX).
type Lease struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewLease(rdb *redis.Client, key string, ttl time.Duration) *Lease {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Lease{rdb: rdb, key: key, ttl: ttl}
}

// Acquire takes the lease and returns the function that gives it back.
func (l *Lease) Acquire(ctx context.Context) (func(context.Context), error) {
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLeaseHeld
	}

	return func(ctx context.Context) {
		_ = releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err()
	}, nil
}
