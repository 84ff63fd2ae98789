package listings

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
	"github.com/servomart/servomart/internal/pkg/cache"
)

// ArtifactLister is the slice of the artifact repository the item page needs.
type ArtifactLister interface {
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Artifact, error)
}

type ListingHandlers struct {
	*domain.BaseHandler
	svc       Service
	featured  *cache.FeaturedCache
	artifacts ArtifactLister
}

func NewListingHandlers(base *domain.BaseHandler, svc Service, featured *cache.FeaturedCache, artifacts ArtifactLister) *ListingHandlers {
	return &ListingHandlers{BaseHandler: base, svc: svc, featured: featured, artifacts: artifacts}
}

// HomeHandler serves / with the featured rail. A failing featured fetch
// degrades to an empty rail rather than an error page.
func (h *ListingHandlers) HomeHandler(c *gin.Context) {
	featured, err := h.featured.Get(c.Request.Context())
	if err != nil {
		h.Logger.Warn("Featured listings unavailable", zap.Error(err))
	}
	h.Render(c, http.StatusOK, "ServoMart", "", pages.HomePage(featured))
}

// BrowseHandler serves /browse and /browse/:page. Anything unparseable as a
// page number falls back to page one.
func (h *ListingHandlers) BrowseHandler(c *gin.Context) {
	page := uint64(1)
	if raw := c.Param("page"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil && n >= 1 {
			page = n
		}
	}

	items, totalPages, err := h.svc.Browse(c.Request.Context(), page)
	if err != nil {
		h.Logger.Error("Browse failed", zap.Error(err), zap.Uint64("page", page))
		h.Alerts.Enqueue(c, models.AlertError, "The catalog is temporarily unavailable.")
		items, totalPages = nil, 1
	}
	if totalPages < 1 {
		totalPages = 1
	}
	h.Render(c, http.StatusOK, "Browse", "Browse", pages.BrowsePage(items, page, totalPages))
}

// ItemHandler serves /item/:username/:slug.
func (h *ListingHandlers) ItemHandler(c *gin.Context) {
	username := c.Param("username")
	slug := c.Param("slug")

	listing, err := h.svc.GetByUsernameSlug(c.Request.Context(), username, slug)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.RenderNotFound(c)
			return
		}
		h.Logger.Error("Item page failed", zap.Error(err),
			zap.String("username", username), zap.String("slug", slug))
		c.Redirect(http.StatusFound, "/404")
		return
	}

	artifacts, err := h.artifacts.ListByListing(c.Request.Context(), listing.ID)
	if err != nil {
		h.Logger.Warn("Item artifacts unavailable", zap.Error(err), zap.String("listingID", listing.ID.String()))
		artifacts = nil
	}
	viewer := middleware.GetUserFromContext(c)
	h.Render(c, http.StatusOK, listing.Title, "Browse", pages.ItemPage(listing, artifacts, viewer))
}

// CreatePageHandler serves the new-listing form.
func (h *ListingHandlers) CreatePageHandler(c *gin.Context) {
	h.Render(c, http.StatusOK, "Create a listing", "", pages.CreatePage())
}

// CreateHandler accepts the new-listing form and redirects to the listing.
func (h *ListingHandlers) CreateHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	priceCents, err := parsePriceCents(c.PostForm("price"))
	if err != nil {
		h.Alerts.Enqueue(c, models.AlertError, "Enter a valid price.")
		c.Redirect(http.StatusFound, "/create")
		return
	}

	listing, err := h.svc.Create(c.Request.Context(), user.ID, title, description, priceCents)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrModerated):
			h.Alerts.Enqueue(c, models.AlertError, "That listing contains terms ServoMart does not allow.")
		case errors.Is(err, models.ErrValidation):
			h.Alerts.Enqueue(c, models.AlertError, "Title and a non-negative price are required.")
		case errors.Is(err, models.ErrConflict):
			h.Alerts.Enqueue(c, models.AlertError, "You already have a listing with that title.")
		default:
			h.Logger.Error("Listing create failed", zap.Error(err), zap.String("userID", user.ID))
			h.Alerts.Enqueue(c, models.AlertError, "Something went wrong creating the listing.")
		}
		c.Redirect(http.StatusFound, "/create")
		return
	}

	h.Alerts.Enqueue(c, models.AlertSuccess, "Listing published.")
	c.Redirect(http.StatusFound, "/item/"+user.Name+"/"+listing.Slug)
}

// FeaturedAPIHandler serves /api/listings/featured as JSON.
func (h *ListingHandlers) FeaturedAPIHandler(c *gin.Context) {
	featured, err := h.featured.Get(c.Request.Context())
	if err != nil {
		h.Logger.Warn("Featured API degraded", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"featured": featured})
}

func parsePriceCents(raw string) (int64, error) {
	dollars, err := strconv.ParseFloat(raw, 64)
	if err != nil || dollars < 0 || math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0, models.ErrValidation
	}
	return int64(math.Round(dollars * 100)), nil
}
