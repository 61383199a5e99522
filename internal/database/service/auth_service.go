package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/metrics"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/validation"
)

const accessTokenType = "access"

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, username, password, confirmPassword string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (uint, error)
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        []byte
	cfg              *config.Config
	logger           *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        []byte(cfg.JWTSecret),
		cfg:              cfg,
		logger:           logger,
	}
}

func (s *authService) Register(ctx context.Context, username, password, confirmPassword string) (*models.User, error) {
	s.logger.Info("📝 [AuthService] Registration attempt", "username", username)

	if strings.TrimSpace(username) == "" {
		return nil, ErrUsernameRequired
	}
	if !validation.Username(username) {
		return nil, ErrUsernameInvalid
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if password != confirmPassword {
		s.logger.Warn("⚠️ [AuthService] Password confirmation mismatch", "username", username)
		return nil, ErrPasswordMismatch
	}

	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error checking username", "error", err)
		return nil, err
	}
	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Username already taken", "username", username)
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID, "uuid", user.UUID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "username", username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "username", username)
			metrics.AuthLogins.WithLabelValues("failure").Inc()
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "username", username)
		metrics.AuthLogins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("⚠️ [AuthService] Inactive account", "user_id", user.ID)
		metrics.AuthLogins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(ctx, user.ID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate tokens", "error", err)
		return nil, err
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	s.logger.Info("🔄 [AuthService] Token refresh attempt")

	tokenHash := hashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) || errors.Is(err, repository.ErrTokenExpired) {
			s.logger.Warn("⚠️ [AuthService] Invalid refresh token", "error", err)
			metrics.AuthTokenRefreshes.WithLabelValues("failure").Inc()
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// A redeemed token showing up again means it leaked: end every session
	// of the owner so whoever holds the newer tokens must log in again.
	if storedToken.IsRevoked {
		s.logger.Warn("🚨 [AuthService] Revoked refresh token reused, revoking all sessions", "user_id", storedToken.UserID)
		metrics.AuthTokenRefreshes.WithLabelValues("reuse").Inc()
		if err := s.refreshTokenRepo.RevokeAllUserTokens(ctx, storedToken.UserID); err != nil {
			s.logger.Error("❌ [AuthService] Failed to revoke user tokens", "error", err)
			return nil, err
		}
		return nil, ErrInvalidToken
	}

	if !storedToken.User.IsActive {
		s.logger.Warn("⚠️ [AuthService] Refresh for inactive account", "user_id", storedToken.UserID)
		metrics.AuthTokenRefreshes.WithLabelValues("failure").Inc()
		return nil, ErrInvalidToken
	}

	// Rotation: the old token must be revoked by this request before a new
	// pair is issued, so a refresh token can only ever be redeemed once.
	if err := s.refreshTokenRepo.Revoke(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			s.logger.Warn("⚠️ [AuthService] Refresh token already redeemed", "user_id", storedToken.UserID)
			metrics.AuthTokenRefreshes.WithLabelValues("failure").Inc()
			return nil, ErrInvalidToken
		}
		s.logger.Error("❌ [AuthService] Failed to revoke old token", "error", err)
		return nil, err
	}

	tokens, err := s.generateTokenPair(ctx, storedToken.UserID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate new tokens", "error", err)
		return nil, err
	}

	metrics.AuthTokenRefreshes.WithLabelValues("success").Inc()
	s.logger.Info("✅ [AuthService] Token refreshed successfully", "user_id", storedToken.UserID)
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	s.logger.Info("👋 [AuthService] Logout attempt")

	if err := s.refreshTokenRepo.Revoke(ctx, hashToken(refreshToken)); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			s.logger.Warn("⚠️ [AuthService] Token not found for logout")
			return ErrInvalidToken
		}
		return err
	}

	s.logger.Info("✅ [AuthService] User logged out successfully")
	return nil
}

// ValidateAccessToken checks signature, expiry and token type without
// touching the database.
func (s *authService) ValidateAccessToken(tokenString string) (uint, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Type != accessTokenType || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// Authenticate resolves a bearer token to an active user
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	return user, nil
}

func (s *authService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	deleted, err := s.refreshTokenRepo.DeleteExpiredTokens(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to delete expired refresh tokens", "error", err)
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("🧹 [AuthService] Deleted expired refresh tokens", "count", deleted)
	}
	return deleted, nil
}

type accessClaims struct {
	UserID uint   `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// generateTokenPair creates both access and refresh tokens
func (s *authService) generateTokenPair(ctx context.Context, userID uint) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateAndStoreRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) generateAccessToken(userID uint) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: userID,
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) generateAndStoreRefreshToken(ctx context.Context, userID uint) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := base64.RawURLEncoding.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(tokenString),
		ExpiresAt: time.Now().UTC().Add(s.cfg.RefreshTokenTTL()),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return tokenString, nil
}

// hashToken is the lookup key for a refresh token; raw values are never stored
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
