package keys

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

const secretPrefix = "sm_"

var _ Service = (*ServiceImpl)(nil)

// Service issues and checks API keys. The full secret exists only in the
// Issue return value; afterwards only its hash can be compared.
type Service interface {
	Issue(ctx context.Context, userID, label string) (secret string, key *models.APIKey, err error)
	List(ctx context.Context, userID string) ([]models.APIKey, error)
	Revoke(ctx context.Context, userID string, keyID uuid.UUID) error
	Verify(ctx context.Context, secret string) (*models.APIKey, error)
}

type ServiceImpl struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{repo: repo, logger: logger}
}

// Issue mints a key of the form sm_<prefix>_<secret>.
func (s *ServiceImpl) Issue(ctx context.Context, userID, label string) (string, *models.APIKey, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", nil, fmt.Errorf("key label is required: %w", models.ErrValidation)
	}

	prefix, err := randomHex(4)
	if err != nil {
		return "", nil, fmt.Errorf("generating key prefix: %w", err)
	}
	body, err := randomHex(24)
	if err != nil {
		return "", nil, fmt.Errorf("generating key secret: %w", err)
	}

	secret := secretPrefix + prefix + "_" + body
	key := &models.APIKey{
		UserID:     userID,
		Label:      label,
		Prefix:     prefix,
		SecretHash: hashSecret(secret),
	}

	id, err := s.repo.Insert(ctx, key)
	if err != nil {
		return "", nil, err
	}
	key.ID = id
	s.logger.Info("API key issued", zap.String("userID", userID), zap.String("prefix", prefix))
	return secret, key, nil
}

func (s *ServiceImpl) List(ctx context.Context, userID string) ([]models.APIKey, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ServiceImpl) Revoke(ctx context.Context, userID string, keyID uuid.UUID) error {
	if err := s.repo.Revoke(ctx, userID, keyID); err != nil {
		return err
	}
	s.logger.Info("API key revoked", zap.String("userID", userID), zap.String("keyID", keyID.String()))
	return nil
}

// Verify resolves a presented secret to its stored key.
func (s *ServiceImpl) Verify(ctx context.Context, secret string) (*models.APIKey, error) {
	prefix, ok := parsePrefix(secret)
	if !ok {
		return nil, fmt.Errorf("malformed api key: %w", models.ErrUnauthenticated)
	}

	key, err := s.repo.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(key.SecretHash), []byte(hashSecret(secret))) != 1 {
		return nil, fmt.Errorf("api key mismatch: %w", models.ErrUnauthenticated)
	}
	return key, nil
}

func parsePrefix(secret string) (string, bool) {
	if !strings.HasPrefix(secret, secretPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(secret, secretPrefix)
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0], true
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
