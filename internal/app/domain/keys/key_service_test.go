package keys

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

type fakeKeyRepo struct {
	byPrefix map[string]*models.APIKey
	revoked  []uuid.UUID
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{byPrefix: make(map[string]*models.APIKey)}
}

func (r *fakeKeyRepo) Insert(ctx context.Context, key *models.APIKey) (uuid.UUID, error) {
	id := uuid.New()
	stored := *key
	stored.ID = id
	r.byPrefix[key.Prefix] = &stored
	return id, nil
}

func (r *fakeKeyRepo) ListByUser(ctx context.Context, userID string) ([]models.APIKey, error) {
	var out []models.APIKey
	for _, k := range r.byPrefix {
		if k.UserID == userID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (r *fakeKeyRepo) GetByPrefix(ctx context.Context, prefix string) (*models.APIKey, error) {
	if k, ok := r.byPrefix[prefix]; ok {
		return k, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeKeyRepo) Revoke(ctx context.Context, userID string, keyID uuid.UUID) error {
	r.revoked = append(r.revoked, keyID)
	return nil
}

var secretFormat = regexp.MustCompile(`^sm_[0-9a-f]{8}_[0-9a-f]{48}$`)

func TestIssueSecretFormat(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), zap.NewNop())

	secret, key, err := svc.Issue(context.Background(), "user-1", "deploy bot")
	require.NoError(t, err)
	assert.Regexp(t, secretFormat, secret)
	assert.Equal(t, "deploy bot", key.Label)
	assert.NotEqual(t, uuid.Nil, key.ID)
	// The stored hash never equals the raw secret.
	assert.NotContains(t, key.SecretHash, secret)
}

func TestIssueRequiresLabel(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), zap.NewNop())

	_, _, err := svc.Issue(context.Background(), "user-1", "   ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestVerifyRoundtrip(t *testing.T) {
	repo := newFakeKeyRepo()
	svc := NewService(repo, zap.NewNop())

	secret, issued, err := svc.Issue(context.Background(), "user-1", "ci")
	require.NoError(t, err)

	key, err := svc.Verify(context.Background(), secret)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, key.ID)
	assert.Equal(t, "user-1", key.UserID)
}

func TestVerifyRejectsTamperedSecret(t *testing.T) {
	repo := newFakeKeyRepo()
	svc := NewService(repo, zap.NewNop())

	secret, _, err := svc.Issue(context.Background(), "user-1", "ci")
	require.NoError(t, err)

	tampered := secret[:len(secret)-1] + flipHexDigit(secret[len(secret)-1])
	_, err = svc.Verify(context.Background(), tampered)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestVerifyRejectsMalformedSecrets(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), zap.NewNop())

	for _, secret := range []string{"", "sm_", "sm_abcd1234", "sk_abcd1234_deadbeef", "sm__deadbeef"} {
		_, err := svc.Verify(context.Background(), secret)
		assert.ErrorIs(t, err, models.ErrUnauthenticated, "secret %q", secret)
	}
}

func TestVerifyUnknownPrefix(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), zap.NewNop())

	_, err := svc.Verify(context.Background(), "sm_00000000_0123456789abcdef0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func flipHexDigit(b byte) string {
	if b == '0' {
		return "1"
	}
	return "0"
}
