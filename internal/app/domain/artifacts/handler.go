package artifacts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/domain/listings"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
)

type ArtifactHandlers struct {
	*domain.BaseHandler
	repo     Repository
	listings listings.Repository
}

func NewArtifactHandlers(base *domain.BaseHandler, repo Repository, listingRepo listings.Repository) *ArtifactHandlers {
	return &ArtifactHandlers{BaseHandler: base, repo: repo, listings: listingRepo}
}

// FilePageHandler serves /file/:artifactId.
func (h *ArtifactHandlers) FilePageHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("artifactId"))
	if err != nil {
		h.RenderNotFound(c)
		return
	}

	artifact, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.RenderNotFound(c)
			return
		}
		h.Logger.Error("File page failed", zap.Error(err), zap.String("artifactID", id.String()))
		c.Redirect(http.StatusFound, "/404")
		return
	}

	listing, err := h.listings.GetByID(c.Request.Context(), artifact.ListingID)
	if err != nil {
		listing = nil
	}
	h.Render(c, http.StatusOK, artifact.Name, "", pages.FilePage(artifact, listing))
}

// DownloadsPageHandler serves /downloads with the viewer's purchased files.
func (h *ArtifactHandlers) DownloadsPageHandler(c *gin.Context) {
	var items []models.Artifact
	if user := middleware.GetUserFromContext(c); user != nil {
		var err error
		items, err = h.repo.ListPurchased(c.Request.Context(), user.ID)
		if err != nil {
			h.Logger.Error("Downloads page failed", zap.Error(err), zap.String("userID", user.ID))
			items = nil
		}
	}
	h.Render(c, http.StatusOK, "Downloads", "Downloads", pages.DownloadsPage(items))
}

// DownloadHandler hands the client off to the artifact's storage location.
// Only buyers with a succeeded order and the listing's seller get the link.
func (h *ArtifactHandlers) DownloadHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact id"})
		return
	}

	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	artifact, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download unavailable"})
		return
	}

	allowed, err := h.repo.CanAccess(c.Request.Context(), userID.(string), id)
	if err != nil {
		h.Logger.Error("Artifact access check failed", zap.Error(err), zap.String("artifactID", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download unavailable"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "purchase required"})
		return
	}
	c.Redirect(http.StatusFound, artifact.StorageRef)
}
