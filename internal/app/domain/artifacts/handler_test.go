package artifacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/domain/alerts"
	"github.com/servomart/servomart/internal/app/models"
)

type fakeArtifactRepo struct {
	artifact *models.Artifact
	allowed  bool
}

func (f *fakeArtifactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	if f.artifact != nil && f.artifact.ID == id {
		return f.artifact, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeArtifactRepo) ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Artifact, error) {
	return nil, nil
}

func (f *fakeArtifactRepo) ListPurchased(ctx context.Context, userID string) ([]models.Artifact, error) {
	return nil, nil
}

func (f *fakeArtifactRepo) CanAccess(ctx context.Context, userID string, artifactID uuid.UUID) (bool, error) {
	return f.allowed, nil
}

func (f *fakeArtifactRepo) Create(ctx context.Context, artifact *models.Artifact) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func newDownloadHandlers(repo Repository) *ArtifactHandlers {
	log := zap.NewNop()
	base := domain.NewBaseHandler(log, alerts.NewQueue(log))
	return NewArtifactHandlers(base, repo, nil)
}

func performDownload(t *testing.T, h *ArtifactHandlers, artifactID, userID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/artifacts/"+artifactID+"/download", nil)
	c.Params = gin.Params{{Key: "id", Value: artifactID}}
	if userID != "" {
		c.Set("user_id", userID)
	}
	h.DownloadHandler(c)
	return w
}

func TestDownloadRedirectsBuyerToStorage(t *testing.T) {
	artifact := &models.Artifact{ID: uuid.New(), StorageRef: "https://files.example.com/urdf.tar.gz"}
	h := newDownloadHandlers(&fakeArtifactRepo{artifact: artifact, allowed: true})

	w := performDownload(t, h, artifact.ID.String(), "buyer-1")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, artifact.StorageRef, w.Header().Get("Location"))
}

func TestDownloadRequiresPurchase(t *testing.T) {
	artifact := &models.Artifact{ID: uuid.New(), StorageRef: "https://files.example.com/urdf.tar.gz"}
	h := newDownloadHandlers(&fakeArtifactRepo{artifact: artifact, allowed: false})

	w := performDownload(t, h, artifact.ID.String(), "stranger-1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestDownloadUnknownArtifact(t *testing.T) {
	h := newDownloadHandlers(&fakeArtifactRepo{allowed: true})

	w := performDownload(t, h, uuid.NewString(), "buyer-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadRejectsMalformedID(t *testing.T) {
	h := newDownloadHandlers(&fakeArtifactRepo{})

	w := performDownload(t, h, "not-a-uuid", "buyer-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
