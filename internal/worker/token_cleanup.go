package worker

import (
	"context"
	"time"
)

// tokenCleanupTimeout bounds a single cleanup run
const tokenCleanupTimeout = 30 * time.Second

// TokenCleaner deletes refresh tokens that can no longer be redeemed
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// ScheduleTokenCleanup purges expired refresh tokens every interval.
// Failures are logged by the cleaner and retried on the next tick.
func ScheduleTokenCleanup(p *Pool, cleaner TokenCleaner, interval time.Duration) {
	p.SubmitPeriodic("refresh-token-cleanup", interval, tokenCleanupTimeout, func(ctx context.Context) {
		_, _ = cleaner.CleanupExpiredTokens(ctx)
	})
}
