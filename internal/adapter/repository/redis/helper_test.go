package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/usecase"
)

// newTestRedisClient returns a client for a miniredis server that lives as
// long as the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func newTestIdempotencyCache(t *testing.T, repo usecase.IdempotencyRepository, ttl time.Duration) (*IdempotencyCache, *miniredis.Miniredis) {
	t.Helper()

	client, mr := newTestRedisClient(t)

	return NewIdempotencyCache(client, repo, ttl, zerolog.Nop()), mr
}

// cachedKey is the Redis key a terminal record for requestID is stored under.
func cachedKey(requestID string) string {
	return idempotencyKeyPrefix + requestID
}
