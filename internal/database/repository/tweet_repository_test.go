package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/testutil"
)

// ==================== TWEET REPOSITORY TESTS ====================

func TestTweetRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", "pw")

	tweet := &models.Tweet{Text: "hello", AuthorID: alice.ID}
	require.NoError(t, repo.Create(ctx, tweet))

	assert.NotZero(t, tweet.ID)
	assert.NotEqual(t, uuid.Nil, tweet.UUID)
	assert.Equal(t, int64(0), tweet.Likes)
	assert.False(t, tweet.Edited)
	assert.False(t, tweet.DateCreated.IsZero())
	assert.Equal(t, "alice", tweet.Author.Username)
}

func TestTweetRepository_CreateUnknownAuthor(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)

	err := repo.Create(context.Background(), &models.Tweet{Text: "orphan", AuthorID: 999})
	assert.Error(t, err)
}

func TestTweetRepository_FindByUUID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", "pw")
	created := testutil.CreateTweet(t, db, alice, "hello")

	tweet, err := repo.FindByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "hello", tweet.Text)
	assert.Equal(t, alice.ID, tweet.AuthorID)
	assert.Equal(t, "alice", tweet.Author.Username)

	_, err = repo.FindByUUID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrTweetNotFound)
}

func TestTweetRepository_Listing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", "pw")
	bob := testutil.CreateUser(t, db, "bob", "pw")

	first := testutil.CreateTweet(t, db, alice, "first")
	second := testutil.CreateTweet(t, db, bob, "second")
	third := testutil.CreateTweet(t, db, alice, "third")

	uuids := func(tweets []models.Tweet) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(tweets))
		for _, tw := range tweets {
			out = append(out, tw.UUID)
		}
		return out
	}

	t.Run("recent is newest first", func(t *testing.T) {
		tweets, err := repo.ListRecent(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{third.UUID, second.UUID, first.UUID}, uuids(tweets))
		assert.Equal(t, "alice", tweets[0].Author.Username)
		assert.Equal(t, "bob", tweets[1].Author.Username)
	})

	t.Run("by author id", func(t *testing.T) {
		tweets, err := repo.ListByAuthorID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{third.UUID, first.UUID}, uuids(tweets))
	})

	t.Run("by author uuid", func(t *testing.T) {
		tweets, err := repo.ListByAuthorUUID(ctx, bob.UUID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.UUID}, uuids(tweets))
	})

	t.Run("unknown author uuid is empty", func(t *testing.T) {
		tweets, err := repo.ListByAuthorUUID(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, tweets)
		assert.Empty(t, tweets)
	})
}

func TestTweetRepository_ListRecentEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)

	tweets, err := repo.ListRecent(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tweets)
	assert.Empty(t, tweets)
}

func TestTweetRepository_UpdateText(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", "pw")
	bob := testutil.CreateUser(t, db, "bob", "pw")
	tweet := testutil.CreateTweet(t, db, alice, "hello")

	t.Run("other author does not match", func(t *testing.T) {
		err := repo.UpdateText(ctx, tweet.UUID, bob.ID, "hijacked")
		assert.ErrorIs(t, err, repository.ErrTweetNotFound)

		stored, err := repo.FindByUUID(ctx, tweet.UUID)
		require.NoError(t, err)
		assert.Equal(t, "hello", stored.Text)
		assert.False(t, stored.Edited)
	})

	t.Run("author updates text and edited flag", func(t *testing.T) {
		require.NoError(t, repo.UpdateText(ctx, tweet.UUID, alice.ID, "hi"))

		stored, err := repo.FindByUUID(ctx, tweet.UUID)
		require.NoError(t, err)
		assert.Equal(t, "hi", stored.Text)
		assert.True(t, stored.Edited)
		assert.True(t, tweet.DateCreated.Equal(stored.DateCreated))
	})

	t.Run("unknown tweet", func(t *testing.T) {
		err := repo.UpdateText(ctx, uuid.New(), alice.ID, "hi")
		assert.ErrorIs(t, err, repository.ErrTweetNotFound)
	})
}

func TestTweetRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", "pw")
	bob := testutil.CreateUser(t, db, "bob", "pw")
	tweet := testutil.CreateTweet(t, db, alice, "hello")

	assert.ErrorIs(t, repo.Delete(ctx, tweet.UUID, bob.ID), repository.ErrTweetNotFound)
	require.NoError(t, repo.Delete(ctx, tweet.UUID, alice.ID))
	assert.ErrorIs(t, repo.Delete(ctx, tweet.UUID, alice.ID), repository.ErrTweetNotFound)

	_, err := repo.FindByUUID(ctx, tweet.UUID)
	assert.ErrorIs(t, err, repository.ErrTweetNotFound)
}

func TestTweetRepository_IncrementLikesConcurrently(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", "pw")
	tweet := testutil.CreateTweet(t, db, alice, "popular")

	const likes = 25
	var wg sync.WaitGroup
	errs := make(chan error, likes)
	for i := 0; i < likes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.IncrementLikes(ctx, tweet.UUID)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := repo.FindByUUID(ctx, tweet.UUID)
	require.NoError(t, err)
	assert.Equal(t, int64(likes), stored.Likes)
	assert.False(t, stored.Edited)
}

func TestTweetRepository_IncrementLikesUnknownTweet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTweetRepository(db)

	err := repo.IncrementLikes(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrTweetNotFound)
}
