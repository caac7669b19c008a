package cache

import (
	"context"
	"log"
	"time"

	"code_arena/internal/common"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only if it still holds our value, so a
// lock that expired and was re-acquired by another grader is never clobbered.
var releaseScript = redis.NewScript(`
    if redis.call("get", KEYS[1]) == ARGV[1] then
        return redis.call("del", KEYS[1])
    else
        return 0
    end
`)

// AccountLock serializes the stats-update/badge-award section per account.
// Two submissions from the same account take turns; different accounts never
// contend. The lock lives in Redis because evaluation may run in more than one
// process.
type AccountLock struct {
	rdb  *redis.Client
	ttl  time.Duration
	wait time.Duration
}

func NewAccountLock(rdb *redis.Client, ttl, wait time.Duration) *AccountLock {
	return &AccountLock{rdb: rdb, ttl: ttl, wait: wait}
}

func (l *AccountLock) key(accountID string) string {
	return "grading_lock:" + accountID
}

// Acquire blocks until the per-account lock is held, the wait budget runs out,
// or ctx is cancelled. The returned release func is safe to call exactly once.
func (l *AccountLock) Acquire(ctx context.Context, accountID string) (func(), error) {
	lockValue := uuid.NewString()
	key := l.key(accountID)
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, key, lockValue, l.ttl).Result()
		if err != nil {
			return nil, common.Errorf("account lock setnx: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, common.ErrLockFailed
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}

	release := func() {
		deleted, err := releaseScript.Run(context.Background(), l.rdb, []string{key}, lockValue).Result()
		if err != nil {
			log.Printf("ERROR: Failed to release account lock for %s: %v", accountID, err)
			return
		}
		if n, _ := deleted.(int64); n != 1 {
			log.Printf("WARN: Account lock for %s expired before release.", accountID)
		}
	}
	return release, nil
}
