package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/metrics"
)

// TweetService defines the interface for tweet business logic.
// callerID is the authenticated user; authentication itself happens in the
// HTTP layer before any of these are called.
type TweetService interface {
	ListOwn(ctx context.Context, callerID uint) ([]models.Tweet, error)
	ListRecent(ctx context.Context) ([]models.Tweet, error)
	ListByUser(ctx context.Context, userUUID string) ([]models.Tweet, error)

	Create(ctx context.Context, callerID uint, text string) (*models.Tweet, error)
	Get(ctx context.Context, tweetUUID string) (*models.Tweet, error)
	Update(ctx context.Context, callerID uint, tweetUUID string, text *string) (*models.Tweet, error)
	Delete(ctx context.Context, callerID uint, tweetUUID string) error
	Like(ctx context.Context, tweetUUID string) (*models.Tweet, error)
}

type tweetService struct {
	tweetRepo repository.TweetRepository
	timeline  database.TimelineStore
	logger    *slog.Logger
}

// NewTweetService creates a new tweet service instance
func NewTweetService(
	tweetRepo repository.TweetRepository,
	timeline database.TimelineStore,
	logger *slog.Logger,
) TweetService {
	return &tweetService{
		tweetRepo: tweetRepo,
		timeline:  timeline,
		logger:    logger,
	}
}

// ==================== Listing ====================

func (s *tweetService) ListOwn(ctx context.Context, callerID uint) ([]models.Tweet, error) {
	return s.tweetRepo.ListByAuthorID(ctx, callerID)
}

// ListRecent serves the cached timeline when present; the database is the
// source of truth and is used whenever the cache misses or fails.
func (s *tweetService) ListRecent(ctx context.Context) ([]models.Tweet, error) {
	cached, hit, err := s.timeline.GetRecentTweets(ctx)
	if err != nil {
		s.logger.Warn("⚠️ [TweetService] Timeline cache read failed, using database", "error", err)
	}
	if hit {
		if cached == nil {
			cached = []models.Tweet{}
		}
		return cached, nil
	}

	// Taken before the read so a mutation committed after it voids the fill
	gen, genErr := s.timeline.Generation(ctx)

	tweets, err := s.tweetRepo.ListRecent(ctx)
	if err != nil {
		s.logger.Error("❌ [TweetService] Failed to list recent tweets", "error", err)
		return nil, err
	}

	if genErr != nil {
		s.logger.Warn("⚠️ [TweetService] Timeline generation unavailable, not caching", "error", genErr)
		return tweets, nil
	}
	if err := s.timeline.SetRecentTweets(ctx, tweets, gen); err != nil {
		s.logger.Warn("⚠️ [TweetService] Failed to cache recent timeline", "error", err)
	}

	return tweets, nil
}

// ListByUser never fails for an unknown or malformed user uuid; it returns an empty list
func (s *tweetService) ListByUser(ctx context.Context, userUUID string) ([]models.Tweet, error) {
	parsed, err := uuid.Parse(userUUID)
	if err != nil {
		return []models.Tweet{}, nil
	}
	return s.tweetRepo.ListByAuthorUUID(ctx, parsed)
}

// ==================== Single tweet ====================

func (s *tweetService) Create(ctx context.Context, callerID uint, text string) (*models.Tweet, error) {
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	tweet := &models.Tweet{
		Text:     text,
		AuthorID: callerID,
	}

	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("❌ [TweetService] Failed to create tweet", "error", err, "author_id", callerID)
		return nil, err
	}

	metrics.TweetsCreated.Inc()
	s.invalidateTimeline(ctx)

	s.logger.Info("✅ [TweetService] Tweet created", "uuid", tweet.UUID, "author_id", callerID)
	return tweet, nil
}

func (s *tweetService) Get(ctx context.Context, tweetUUID string) (*models.Tweet, error) {
	parsed, err := uuid.Parse(tweetUUID)
	if err != nil {
		return nil, ErrTweetNotFound
	}

	tweet, err := s.tweetRepo.FindByUUID(ctx, parsed)
	if err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	return tweet, nil
}

// Update replaces the text of a tweet owned by callerID. A nil text means
// the payload carried no writable field.
func (s *tweetService) Update(ctx context.Context, callerID uint, tweetUUID string, text *string) (*models.Tweet, error) {
	tweet, err := s.authorize(ctx, callerID, tweetUUID)
	if err != nil {
		return nil, err
	}

	if text == nil {
		return nil, ErrTweetTextRequired
	}
	normalized, err := normalizeText(*text)
	if err != nil {
		return nil, err
	}

	// Conditional on author_id so a concurrent ownership change cannot slip through
	if err := s.tweetRepo.UpdateText(ctx, tweet.UUID, callerID, normalized); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return nil, ErrTweetNotFound
		}
		s.logger.Error("❌ [TweetService] Failed to update tweet", "error", err, "uuid", tweet.UUID)
		return nil, err
	}

	s.invalidateTimeline(ctx)
	s.logger.Info("✏️ [TweetService] Tweet updated", "uuid", tweet.UUID, "author_id", callerID)

	return s.Get(ctx, tweetUUID)
}

func (s *tweetService) Delete(ctx context.Context, callerID uint, tweetUUID string) error {
	tweet, err := s.authorize(ctx, callerID, tweetUUID)
	if err != nil {
		return err
	}

	if err := s.tweetRepo.Delete(ctx, tweet.UUID, callerID); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return ErrTweetNotFound
		}
		s.logger.Error("❌ [TweetService] Failed to delete tweet", "error", err, "uuid", tweet.UUID)
		return err
	}

	s.invalidateTimeline(ctx)
	s.logger.Info("🗑️ [TweetService] Tweet deleted", "uuid", tweet.UUID, "author_id", callerID)
	return nil
}

// Like adds one like. Any authenticated caller may like any tweet, any number of times.
func (s *tweetService) Like(ctx context.Context, tweetUUID string) (*models.Tweet, error) {
	parsed, err := uuid.Parse(tweetUUID)
	if err != nil {
		return nil, ErrTweetNotFound
	}

	if err := s.tweetRepo.IncrementLikes(ctx, parsed); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return nil, ErrTweetNotFound
		}
		s.logger.Error("❌ [TweetService] Failed to like tweet", "error", err, "uuid", parsed)
		return nil, err
	}

	metrics.TweetLikes.Inc()
	s.invalidateTimeline(ctx)

	return s.Get(ctx, tweetUUID)
}

// ==================== Helpers ====================

// authorize loads the tweet and checks that callerID wrote it: 404 before 403
func (s *tweetService) authorize(ctx context.Context, callerID uint, tweetUUID string) (*models.Tweet, error) {
	tweet, err := s.Get(ctx, tweetUUID)
	if err != nil {
		return nil, err
	}

	if tweet.AuthorID != callerID {
		s.logger.Warn("⚠️ [TweetService] Caller is not the author",
			"uuid", tweet.UUID,
			"caller_id", callerID,
		)
		return nil, ErrNotTweetAuthor
	}

	return tweet, nil
}

func (s *tweetService) invalidateTimeline(ctx context.Context) {
	if err := s.timeline.InvalidateRecentTweets(ctx); err != nil {
		s.logger.Warn("⚠️ [TweetService] Failed to invalidate timeline cache", "error", err)
	}
}

// normalizeText trims surrounding whitespace and enforces the length limit in characters
func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrTweetTextRequired
	}
	if utf8.RuneCountInString(text) > models.MaxTweetLength {
		return "", ErrTweetTextTooLong
	}
	return text, nil
}
