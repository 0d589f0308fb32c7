// Package runlock serializes batch ingests across processes. The resolver is
// single-writer by contract; when multiple ingest jobs can race on the same
// registry, the Redis lock makes one of them wait its turn out.
package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "fundregistry/pkg/domain-errors"
)

const lockKey = "fundregistry:ingest:lock"

// releaseScript deletes the lock only if this holder still owns it, so an
// expired-and-reacquired lock is never released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-holder run lock backed by Redis.
type Lock struct {
	client *redis.Client
	token  string
	ttl    time.Duration
}

// New constructs a lock with the given TTL. The TTL bounds how long a
// crashed holder can block other ingests.
func New(client *redis.Client, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

// Acquire takes the lock or fails with a conflict when another ingest
// holds it.
func (l *Lock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, lockKey, l.token, l.ttl).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "acquire ingest lock")
	}
	if !ok {
		return dErrors.New(dErrors.CodeConflict, "another ingest run holds the lock")
	}
	return nil
}

// Release gives the lock up. Releasing a lock this holder no longer owns is
// a no-op.
func (l *Lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey}, l.token).Err(); err != nil {
		return fmt.Errorf("release ingest lock: %w", err)
	}
	return nil
}
