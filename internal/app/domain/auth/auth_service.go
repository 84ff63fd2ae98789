package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/pkg/config"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the session business logic contract.
type AuthService interface {
	// Login validates credentials and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, *models.UserAuth, error)
	// Register stores a new user and returns its ID.
	Register(ctx context.Context, username, email, password string) (string, error)
	GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error)
	UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error

	GenerateTokenWithExpiration(user *models.UserAuth, expiration time.Duration) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
	cfg    *config.Config
	jwt    *JWTService
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, cfg: cfg, jwt: NewJWTService()}
}

func (s *AuthServiceImpl) jwtConfig() JWTConfig {
	return JWTConfig{
		SecretKey:       s.cfg.JWT.SecretKey,
		TokenExpiration: s.cfg.JWT.TokenTTL,
		Logger:          s.logger,
	}
}

// Login validates credentials and issues a session token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *models.UserAuth, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.Warn("GetUserByEmail failed")
		// Don't reveal whether the user exists or the password is wrong.
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.Warn("Password comparison failed", zap.String("userID", user.ID))
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := s.GenerateTokenWithExpiration(user, s.cfg.JWT.TokenTTL)
	if err != nil {
		l.Error("Failed to generate token", zap.String("userID", user.ID), zap.Error(err))
		return "", nil, fmt.Errorf("app error generating token: %w", err)
	}

	l.Info("Login successful")
	return token, user, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (string, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		return "", fmt.Errorf("could not process password")
	}

	userID, err := s.repo.Register(ctx, username, email, string(hashedPasswordBytes))
	if err != nil {
		l.Error("Repository registration failed", zap.Error(err))
		return "", fmt.Errorf("registration failed: %w", err)
	}

	l.Info("Registration successful", zap.String("userID", userID))
	return userID, nil
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	l := s.logger.With(zap.String("method", "UpdatePassword"), zap.String("userID", userID))

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		l.Warn("Old password mismatch")
		return fmt.Errorf("invalid password: %w", models.ErrUnauthenticated)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("could not process password")
	}
	return s.repo.UpdatePassword(ctx, userID, string(hashed))
}

func (s *AuthServiceImpl) GenerateTokenWithExpiration(user *models.UserAuth, expiration time.Duration) (string, error) {
	cfg := s.jwtConfig()
	cfg.TokenExpiration = expiration
	return s.jwt.GenerateToken(cfg, user.ID, user.Email, user.Username, user.IsSeller)
}

func (s *AuthServiceImpl) ValidateToken(tokenString string) (*Claims, error) {
	return s.jwt.ValidateToken(s.jwtConfig(), tokenString)
}
