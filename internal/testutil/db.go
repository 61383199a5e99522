package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
)

// NewTestDB opens a fresh in-memory SQLite database with the schema applied.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormCfg := database.GormConfig()
	gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), gormCfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Tweet{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// Logger discards everything below error level
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Config returns a config suitable for tests; nothing in it points at real services
func Config() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		LogLevel:               slog.LevelError,
		JWTSecret:              "test-secret",
		AccessTokenExpiration:  300,
		RefreshTokenExpiration: 3600,
		RecentTweetsCacheTTL:   30,
		TokenCleanupInterval:   0,
		ShutdownTimeout:        1,
	}
}

// CreateUser inserts an active user directly, bypassing registration
func CreateUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Password: string(hash),
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTweet inserts a tweet for author directly
func CreateTweet(t *testing.T, db *gorm.DB, author *models.User, text string) *models.Tweet {
	t.Helper()

	tweet := &models.Tweet{
		Text:     text,
		AuthorID: author.ID,
	}
	require.NoError(t, db.Omit("Author").Create(tweet).Error)
	tweet.Author = *author
	return tweet
}
