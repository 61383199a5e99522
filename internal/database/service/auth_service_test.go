package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/testutil"
)

func newAuthService(t *testing.T) (service.AuthService, *gorm.DB) {
	db := testutil.NewTestDB(t)
	svc := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		testutil.Config(),
		testutil.Logger(),
	)
	return svc, db
}

// ==================== REGISTER ====================

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		wantErr  error
	}{
		{name: "success", username: "alice", password: "pw1", confirm: "pw1"},
		{name: "missing username", username: "", password: "pw1", confirm: "pw1", wantErr: service.ErrUsernameRequired},
		{name: "invalid username", username: "alice smith", password: "pw1", confirm: "pw1", wantErr: service.ErrUsernameInvalid},
		{name: "reserved username", username: "me", password: "pw1", confirm: "pw1", wantErr: service.ErrUsernameInvalid},
		{name: "unicode username", username: "zoë", password: "pw1", confirm: "pw1"},
		{name: "missing password", username: "alice", password: "", confirm: "", wantErr: service.ErrPasswordRequired},
		{name: "password mismatch", username: "alice", password: "pw1", confirm: "pw2", wantErr: service.ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newAuthService(t)

			user, err := svc.Register(context.Background(), tt.username, tt.password, tt.confirm)

			var count int64
			require.NoError(t, db.Model(&models.User{}).Count(&count).Error)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, service.ErrValidation)
				assert.Nil(t, user)
				assert.Zero(t, count)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.username, user.Username)
			assert.True(t, user.IsActive)
			assert.False(t, user.IsStaff)
			assert.NotEqual(t, tt.password, user.Password)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	original, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other", "other")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
	assert.ErrorIs(t, err, service.ErrValidation)

	// The existing account keeps its password
	_, err = svc.Login(ctx, "alice", "pw1")
	assert.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, original.ID).Error)
	assert.Equal(t, original.Password, stored.Password)
}

func TestAuthService_RegisterLostRace(t *testing.T) {
	userRepo := new(testutil.MockUserRepository)
	tokenRepo := new(testutil.MockRefreshTokenRepository)
	svc := service.NewAuthService(userRepo, tokenRepo, testutil.Config(), testutil.Logger())

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(repository.ErrDuplicateUsername)

	_, err := svc.Register(context.Background(), "alice", "pw1", "pw1")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
	userRepo.AssertExpectations(t)
}

// ==================== LOGIN ====================

func TestAuthService_Login(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "alice", "pw1")

	inactive := testutil.CreateUser(t, db, "carol", "pw3")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	t.Run("success", func(t *testing.T) {
		tokens, err := svc.Login(ctx, "alice", "pw1")
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	failures := map[string][2]string{
		"wrong password":   {"alice", "nope"},
		"unknown user":     {"nobody", "pw1"},
		"wrong case":       {"Alice", "pw1"},
		"inactive account": {"carol", "pw3"},
	}
	for name, creds := range failures {
		t.Run(name, func(t *testing.T) {
			tokens, err := svc.Login(ctx, creds[0], creds[1])
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
			assert.ErrorIs(t, err, service.ErrUnauthorized)
			assert.Nil(t, tokens)
		})
	}
}

func TestAuthService_RefreshTokenIsStoredHashed(t *testing.T) {
	svc, db := newAuthService(t)
	testutil.CreateUser(t, db, "alice", "pw1")

	tokens, err := svc.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	var stored models.RefreshToken
	require.NoError(t, db.First(&stored).Error)
	assert.Len(t, stored.TokenHash, 64)
	assert.NotEqual(t, tokens.RefreshToken, stored.TokenHash)
}

// ==================== ACCESS TOKENS ====================

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "alice", "pw1")
	cfg := testutil.Config()

	tokens, err := svc.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		userID, err := svc.ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(tokens.RefreshToken)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	sign := func(claims jwt.MapClaims, secret string) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	invalid := map[string]string{
		"garbage": "not-a-jwt",
		"expired": sign(jwt.MapClaims{
			"user_id": user.ID, "type": "access", "exp": time.Now().Add(-time.Minute).Unix(),
		}, cfg.JWTSecret),
		"wrong secret": sign(jwt.MapClaims{
			"user_id": user.ID, "type": "access", "exp": time.Now().Add(time.Minute).Unix(),
		}, "other-secret"),
		"wrong type": sign(jwt.MapClaims{
			"user_id": user.ID, "type": "refresh", "exp": time.Now().Add(time.Minute).Unix(),
		}, cfg.JWTSecret),
		"no expiry": sign(jwt.MapClaims{
			"user_id": user.ID, "type": "access",
		}, cfg.JWTSecret),
	}
	for name, token := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice", "pw1")

	tokens, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	authed, err := svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	// Deactivation takes effect for tokens already issued
	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

// ==================== REFRESH / LOGOUT ====================

func TestAuthService_RefreshToken(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice", "pw1")

	tokens, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, refreshed.RefreshToken)

	userID, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	t.Run("old token is single use", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, tokens.RefreshToken)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("newer token is revoked once the old one is reused", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, refreshed.RefreshToken)
		assert.ErrorIs(t, err, service.ErrInvalidToken)

		var active int64
		require.NoError(t, db.Model(&models.RefreshToken{}).
			Where("user_id = ? AND is_revoked = ?", user.ID, false).
			Count(&active).Error)
		assert.Zero(t, active)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "made-up")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("inactive user", func(t *testing.T) {
		fresh, err := svc.Login(ctx, "alice", "pw1")
		require.NoError(t, err)
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
		_, err = svc.RefreshToken(ctx, fresh.RefreshToken)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestAuthService_RefreshTokenExpired(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.CreateUser(t, db, "alice", "pw1")

	tokens, err := svc.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)

	_, err = svc.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuthService_RefreshTokenLostRotationRace(t *testing.T) {
	userRepo := new(testutil.MockUserRepository)
	tokenRepo := new(testutil.MockRefreshTokenRepository)
	svc := service.NewAuthService(userRepo, tokenRepo, testutil.Config(), testutil.Logger())

	stored := &models.RefreshToken{
		UserID:    7,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      models.User{ID: 7, IsActive: true},
	}
	tokenRepo.On("FindByHash", mock.Anything, mock.Anything).Return(stored, nil)
	// Another request revoked it between the lookup and the revoke
	tokenRepo.On("Revoke", mock.Anything, mock.Anything).Return(repository.ErrTokenNotFound)

	tokens, err := svc.RefreshToken(context.Background(), "raw-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.Nil(t, tokens)
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RefreshTokenReuseRevokesAllSessions(t *testing.T) {
	userRepo := new(testutil.MockUserRepository)
	tokenRepo := new(testutil.MockRefreshTokenRepository)
	svc := service.NewAuthService(userRepo, tokenRepo, testutil.Config(), testutil.Logger())

	stored := &models.RefreshToken{
		UserID:    7,
		IsRevoked: true,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      models.User{ID: 7, IsActive: true},
	}
	tokenRepo.On("FindByHash", mock.Anything, mock.Anything).Return(stored, nil)
	tokenRepo.On("RevokeAllUserTokens", mock.Anything, uint(7)).Return(nil)

	tokens, err := svc.RefreshToken(context.Background(), "raw-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.Nil(t, tokens)

	tokenRepo.AssertExpectations(t)
	tokenRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Logout(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "alice", "pw1")

	tokens, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	assert.ErrorIs(t, svc.Logout(ctx, tokens.RefreshToken), service.ErrInvalidToken)
}

func TestAuthService_CleanupExpiredTokens(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice", "pw1")

	_, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: "expired-digest",
		ExpiresAt: time.Now().UTC().Add(-24 * time.Hour),
	}).Error)

	deleted, err := svc.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
