package database

import (
	"context"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
)

// TimelineStore caches the system-wide recent timeline.
// GetRecentTweets reports hit=false when nothing is cached. Readers take the
// Generation before loading from the database and pass it to SetRecentTweets,
// which ignores the fill if an invalidation happened in between.
type TimelineStore interface {
	GetRecentTweets(ctx context.Context) (tweets []models.Tweet, hit bool, err error)
	Generation(ctx context.Context) (int64, error)
	SetRecentTweets(ctx context.Context, tweets []models.Tweet, gen int64) error
	InvalidateRecentTweets(ctx context.Context) error
	Close() error
}
