// Package cache is the read-through side-channel for computed dashboard
// payloads. The aggregator works identically with any backend, including none:
// a miss just means a fresh computation.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores serialized payloads under string keys with a TTL. Backends are
// best-effort: failures are logged by implementations and surface to callers
// as misses, never as errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// InvalidateUser drops every dashboard entry for one user, across all
	// display-currency/range combinations.
	InvalidateUser(ctx context.Context, userID int64)
}

// DashboardKey builds the cache key for one user/currency/range combination.
func DashboardKey(userID int64, currency, rng string) string {
	return fmt.Sprintf("dashboard:%d:%s:%s", userID, currency, rng)
}

// userPrefix matches every dashboard key belonging to one user.
func userPrefix(userID int64) string {
	return fmt.Sprintf("dashboard:%d:", userID)
}
