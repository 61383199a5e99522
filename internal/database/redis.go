package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
)

const (
	recentTweetsKey    = "tweets:recent"
	recentTweetsGenKey = "tweets:recent:gen"
)

// errStaleTimeline aborts a cache fill that raced with a mutation
var errStaleTimeline = errors.New("recent timeline changed since it was read")

// TimelineCache keeps the recent timeline in Redis
type TimelineCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewTimelineCache connects to Redis and returns a cache for the recent timeline
func NewTimelineCache(cfg *config.Config, logger *slog.Logger) (*TimelineCache, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDatabase,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDatabase),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return NewTimelineCacheWithClient(client, time.Duration(cfg.RecentTweetsCacheTTL)*time.Second, logger), nil
}

// NewTimelineCacheWithClient wraps an existing client (used by tests)
func NewTimelineCacheWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *TimelineCache {
	return &TimelineCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func (r *TimelineCache) Close() error {
	return r.client.Close()
}

func (r *TimelineCache) GetRecentTweets(ctx context.Context) ([]models.Tweet, bool, error) {
	data, err := r.client.Get(ctx, recentTweetsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to read recent timeline", "error", err)
		return nil, false, err
	}

	var tweets []models.Tweet
	if err := json.Unmarshal(data, &tweets); err != nil {
		r.logger.Warn("⚠️ [Redis] Corrupt recent timeline entry, dropping it", "error", err)
		r.client.Del(ctx, recentTweetsKey)
		return nil, false, nil
	}

	r.logger.Debug("📖 [Redis] Recent timeline cache hit", "tweet_count", len(tweets))
	return tweets, true, nil
}

// Generation returns the counter bumped by every invalidation. A missing
// counter reads as zero.
func (r *TimelineCache) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, recentTweetsGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to read timeline generation", "error", err)
		return 0, err
	}
	return gen, nil
}

// SetRecentTweets stores tweets only while the generation still equals gen,
// the value read before the tweets were loaded. A fill that lost the race
// against an invalidation is dropped.
func (r *TimelineCache) SetRecentTweets(ctx context.Context, tweets []models.Tweet, gen int64) error {
	if r.ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(tweets)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, recentTweetsGenKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return errStaleTimeline
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, recentTweetsKey, data, r.ttl)
			return nil
		})
		return err
	}, recentTweetsGenKey)

	if errors.Is(err, errStaleTimeline) || errors.Is(err, redis.TxFailedErr) {
		r.logger.Debug("⏭️ [Redis] Skipped stale recent timeline fill", "generation", gen)
		return nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to store recent timeline", "error", err)
		return err
	}

	r.logger.Debug("💾 [Redis] Stored recent timeline",
		"tweet_count", len(tweets),
		"ttl", r.ttl,
	)
	return nil
}

// InvalidateRecentTweets bumps the generation and drops the cached list in
// one transaction.
func (r *TimelineCache) InvalidateRecentTweets(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, recentTweetsGenKey)
		pipe.Del(ctx, recentTweetsKey)
		return nil
	})
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to invalidate recent timeline", "error", err)
		return err
	}
	return nil
}

// NoOpTimelineCache never caches anything.
// Used when Redis is not available
type NoOpTimelineCache struct{}

func NewNoOpTimelineCache(logger *slog.Logger) TimelineStore {
	logger.Warn("⚠️ [Redis] Using no-op timeline cache - recent timeline is read from the database")
	return NoOpTimelineCache{}
}

func (NoOpTimelineCache) GetRecentTweets(ctx context.Context) ([]models.Tweet, bool, error) {
	return nil, false, nil
}

func (NoOpTimelineCache) Generation(ctx context.Context) (int64, error) {
	return 0, nil
}

func (NoOpTimelineCache) SetRecentTweets(ctx context.Context, tweets []models.Tweet, gen int64) error {
	return nil
}

func (NoOpTimelineCache) InvalidateRecentTweets(ctx context.Context) error {
	return nil
}

func (NoOpTimelineCache) Close() error {
	return nil
}
