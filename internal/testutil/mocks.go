package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
)

// ==================== MOCK USER REPOSITORY ====================

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK REFRESH TOKEN REPOSITORY ====================

// MockRefreshTokenRepository implements repository.RefreshTokenRepository for testing
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllUserTokens(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// ==================== MOCK TWEET REPOSITORY ====================

// MockTweetRepository implements repository.TweetRepository for testing
type MockTweetRepository struct {
	mock.Mock
}

func (m *MockTweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	args := m.Called(ctx, tweet)
	return args.Error(0)
}

func (m *MockTweetRepository) FindByUUID(ctx context.Context, tweetUUID uuid.UUID) (*models.Tweet, error) {
	args := m.Called(ctx, tweetUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tweet), args.Error(1)
}

func (m *MockTweetRepository) ListByAuthorID(ctx context.Context, authorID uint) ([]models.Tweet, error) {
	args := m.Called(ctx, authorID)
	return tweetsArg(args), args.Error(1)
}

func (m *MockTweetRepository) ListByAuthorUUID(ctx context.Context, authorUUID uuid.UUID) ([]models.Tweet, error) {
	args := m.Called(ctx, authorUUID)
	return tweetsArg(args), args.Error(1)
}

func (m *MockTweetRepository) ListRecent(ctx context.Context) ([]models.Tweet, error) {
	args := m.Called(ctx)
	return tweetsArg(args), args.Error(1)
}

func (m *MockTweetRepository) UpdateText(ctx context.Context, tweetUUID uuid.UUID, authorID uint, text string) error {
	args := m.Called(ctx, tweetUUID, authorID, text)
	return args.Error(0)
}

func (m *MockTweetRepository) Delete(ctx context.Context, tweetUUID uuid.UUID, authorID uint) error {
	args := m.Called(ctx, tweetUUID, authorID)
	return args.Error(0)
}

func (m *MockTweetRepository) IncrementLikes(ctx context.Context, tweetUUID uuid.UUID) error {
	args := m.Called(ctx, tweetUUID)
	return args.Error(0)
}

// ==================== MOCK TIMELINE STORE ====================

// MockTimelineStore implements database.TimelineStore for testing
type MockTimelineStore struct {
	mock.Mock
}

func (m *MockTimelineStore) GetRecentTweets(ctx context.Context) ([]models.Tweet, bool, error) {
	args := m.Called(ctx)
	var tweets []models.Tweet
	if args.Get(0) != nil {
		tweets = args.Get(0).([]models.Tweet)
	}
	return tweets, args.Bool(1), args.Error(2)
}

func (m *MockTimelineStore) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTimelineStore) SetRecentTweets(ctx context.Context, tweets []models.Tweet, gen int64) error {
	args := m.Called(ctx, tweets, gen)
	return args.Error(0)
}

func (m *MockTimelineStore) InvalidateRecentTweets(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTimelineStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ==================== MOCK AUTH SERVICE ====================

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, confirmPassword string) (*models.User, error) {
	args := m.Called(ctx, username, password, confirmPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateAccessToken(tokenString string) (uint, error) {
	args := m.Called(tokenString)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func tweetsArg(args mock.Arguments) []models.Tweet {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Tweet)
}
