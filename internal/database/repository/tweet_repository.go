package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
)

// TweetRepository defines the interface for tweet data operations.
// Every mutation is a single conditional statement so concurrent requests on
// the same tweet never lose an update.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	FindByUUID(ctx context.Context, tweetUUID uuid.UUID) (*models.Tweet, error)
	ListByAuthorID(ctx context.Context, authorID uint) ([]models.Tweet, error)
	ListByAuthorUUID(ctx context.Context, authorUUID uuid.UUID) ([]models.Tweet, error)
	ListRecent(ctx context.Context) ([]models.Tweet, error)
	UpdateText(ctx context.Context, tweetUUID uuid.UUID, authorID uint, text string) error
	Delete(ctx context.Context, tweetUUID uuid.UUID, authorID uint) error
	IncrementLikes(ctx context.Context, tweetUUID uuid.UUID) error
}

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository instance
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

// newestFirst matches idx_tweets_recent; id breaks ties between equal timestamps
const newestFirst = "tweets.date_created DESC, tweets.id DESC"

func (r *tweetRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Tweet{}).Joins("Author")
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(tweet).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrUserNotFound
		}
		return err
	}

	// Reload so the caller gets the author and the stored timestamp
	stored, err := r.FindByUUID(ctx, tweet.UUID)
	if err != nil {
		return err
	}
	*tweet = *stored
	return nil
}

func (r *tweetRepository) FindByUUID(ctx context.Context, tweetUUID uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.withAuthor(ctx).Where("tweets.uuid = ?", tweetUUID).First(&tweet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) ListByAuthorID(ctx context.Context, authorID uint) ([]models.Tweet, error) {
	tweets := []models.Tweet{}
	err := r.withAuthor(ctx).
		Where("tweets.author_id = ?", authorID).
		Order(newestFirst).
		Find(&tweets).Error
	return tweets, err
}

// ListByAuthorUUID returns an empty slice when no user has that uuid
func (r *tweetRepository) ListByAuthorUUID(ctx context.Context, authorUUID uuid.UUID) ([]models.Tweet, error) {
	authorIDs := r.db.WithContext(ctx).Model(&models.User{}).Select("id").Where("uuid = ?", authorUUID)

	tweets := []models.Tweet{}
	err := r.withAuthor(ctx).
		Where("tweets.author_id IN (?)", authorIDs).
		Order(newestFirst).
		Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) ListRecent(ctx context.Context) ([]models.Tweet, error) {
	tweets := []models.Tweet{}
	err := r.withAuthor(ctx).Order(newestFirst).Find(&tweets).Error
	return tweets, err
}

// UpdateText only touches the row when authorID still owns it
func (r *tweetRepository) UpdateText(ctx context.Context, tweetUUID uuid.UUID, authorID uint, text string) error {
	result := r.db.WithContext(ctx).Model(&models.Tweet{}).
		Where("uuid = ? AND author_id = ?", tweetUUID, authorID).
		Updates(map[string]any{
			"text":   text,
			"edited": true,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTweetNotFound
	}
	return nil
}

func (r *tweetRepository) Delete(ctx context.Context, tweetUUID uuid.UUID, authorID uint) error {
	result := r.db.WithContext(ctx).
		Where("uuid = ? AND author_id = ?", tweetUUID, authorID).
		Delete(&models.Tweet{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTweetNotFound
	}
	return nil
}

// IncrementLikes adds exactly one like in the database (no read-modify-write in Go)
func (r *tweetRepository) IncrementLikes(ctx context.Context, tweetUUID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Tweet{}).
		Where("uuid = ?", tweetUUID).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTweetNotFound
	}
	return nil
}

// Repository errors
var (
	ErrTweetNotFound = errors.New("tweet not found")
)
