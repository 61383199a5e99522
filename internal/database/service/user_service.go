package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/validation"
)

// UserService defines the interface for user business logic
type UserService interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateSuperuser provisions a staff account outside public registration
	CreateSuperuser(ctx context.Context, username, password string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ==================== User Retrieval ====================

func (s *userService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ==================== Provisioning ====================

func (s *userService) CreateSuperuser(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if !validation.Username(username) {
		return nil, ErrUsernameInvalid
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    username,
		Password:    string(hashedPassword),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("❌ [UserService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [UserService] Superuser created",
		"user_id", user.ID,
		"username", user.Username,
	)
	return user, nil
}
