package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/pkg/config"
)

type fakeAuthRepo struct {
	usersByEmail map[string]*models.UserAuth
	usersByID    map[string]*models.UserAuth
	registered   []string
	newPassword  string
}

func newFakeAuthRepo(users ...*models.UserAuth) *fakeAuthRepo {
	r := &fakeAuthRepo{
		usersByEmail: make(map[string]*models.UserAuth),
		usersByID:    make(map[string]*models.UserAuth),
	}
	for _, u := range users {
		r.usersByEmail[u.Email] = u
		r.usersByID[u.ID] = u
	}
	return r
}

func (r *fakeAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	if u, ok := r.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeAuthRepo) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	if u, ok := r.usersByID[userID]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeAuthRepo) Register(ctx context.Context, username, email, hashedPassword string) (string, error) {
	r.registered = append(r.registered, email)
	return "new-user-id", nil
}

func (r *fakeAuthRepo) UpdatePassword(ctx context.Context, userID, newHashedPassword string) error {
	r.newPassword = newHashedPassword
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey: "test-secret-key",
			TokenTTL:  time.Hour,
		},
	}
}

func hashFixture(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestLoginSuccessIssuesValidToken(t *testing.T) {
	user := &models.UserAuth{
		ID:       "user-1",
		Username: "ada",
		Email:    "ada@example.com",
		Password: hashFixture(t, "correct horse"),
		IsSeller: true,
	}
	svc := NewAuthService(newFakeAuthRepo(user), testConfig(), zap.NewNop())

	token, got, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user, got)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.True(t, claims.IsSeller)
}

func TestLoginWrongPassword(t *testing.T) {
	user := &models.UserAuth{
		ID:       "user-1",
		Email:    "ada@example.com",
		Password: hashFixture(t, "correct horse"),
	}
	svc := NewAuthService(newFakeAuthRepo(user), testConfig(), zap.NewNop())

	_, _, err := svc.Login(context.Background(), "ada@example.com", "battery staple")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), testConfig(), zap.NewNop())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "anything")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	user := &models.UserAuth{ID: "user-1", Email: "ada@example.com"}
	svc := NewAuthService(newFakeAuthRepo(user), testConfig(), zap.NewNop())

	token, err := svc.GenerateTokenWithExpiration(user, time.Hour)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.SecretKey = "a-different-key"
	otherSvc := NewAuthService(newFakeAuthRepo(user), other, zap.NewNop())

	_, err = otherSvc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	user := &models.UserAuth{ID: "user-1"}
	svc := NewAuthService(newFakeAuthRepo(user), testConfig(), zap.NewNop())

	token, err := svc.GenerateTokenWithExpiration(user, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestRegisterHashesBeforeStoring(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	id, err := svc.Register(context.Background(), "ada", "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "new-user-id", id)
	assert.Equal(t, []string{"ada@example.com"}, repo.registered)
}

func TestUpdatePasswordRequiresOldPassword(t *testing.T) {
	user := &models.UserAuth{
		ID:       "user-1",
		Password: hashFixture(t, "old password"),
	}
	repo := newFakeAuthRepo(user)
	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	err := svc.UpdatePassword(context.Background(), "user-1", "wrong old", "new password")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Empty(t, repo.newPassword)

	err = svc.UpdatePassword(context.Background(), "user-1", "old password", "new password")
	require.NoError(t, err)
	require.NotEmpty(t, repo.newPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.newPassword), []byte("new password")))
}
