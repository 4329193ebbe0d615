package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/database"
	"linguaspeak/internal/models"
	"linguaspeak/internal/repository"
	"linguaspeak/internal/security"
	"linguaspeak/internal/validation"
)

// WelcomeMailer sends the post-registration email
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// RegisterInput carries the fields accepted at sign-up
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	NativeLanguage string
}

// AuthService handles authentication business logic
type AuthService struct {
	db     *database.DB
	tokens *security.TokenManager
	mailer WelcomeMailer
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new auth service. mailer may be nil.
func NewAuthService(db *database.DB, tokens *security.TokenManager, mailer WelcomeMailer, log *zap.Logger) *AuthService {
	return &AuthService{
		db:     db,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new account and returns it with a bearer token
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := validation.NormalizeEmail(in.Email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}

	users := repository.NewUserRepository(s.db)
	exists, err := users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrUserExists
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	nativeLanguage := strings.TrimSpace(in.NativeLanguage)
	if nativeLanguage == "" {
		nativeLanguage = models.DefaultNativeLanguage
	}

	now := s.now()
	user := &models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   passwordHash,
		NativeLanguage: nativeLanguage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// The unique indexes catch a registration racing past the existence check.
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Username); err != nil {
			s.log.Warn("failed to send welcome email", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// Login checks credentials and returns the user with a fresh token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := repository.NewUserRepository(s.db).GetUserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user. A bad token yields
// security.ErrInvalidToken, a valid token for a missing user ErrNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := repository.NewUserRepository(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

