// Package profiles serves public seller/buyer profile pages.
package profiles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/domain/auth"
	"github.com/servomart/servomart/internal/app/domain/listings"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
)

type ProfileHandlers struct {
	*domain.BaseHandler
	authService auth.AuthService
	listings    listings.Repository
}

func NewProfileHandlers(base *domain.BaseHandler, authService auth.AuthService, listingRepo listings.Repository) *ProfileHandlers {
	return &ProfileHandlers{BaseHandler: base, authService: authService, listings: listingRepo}
}

// AccountPageHandler serves /account for the signed-in user.
func (h *ProfileHandlers) AccountPageHandler(c *gin.Context) {
	viewer := middleware.GetUserFromContext(c)
	if viewer == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.Render(c, http.StatusOK, "Account", "", pages.AccountPage(viewer))
}

// ProfileHandler serves /profile and /profile/:id. Without an id it shows the
// viewer's own profile and requires a session.
func (h *ProfileHandlers) ProfileHandler(c *gin.Context) {
	id := c.Param("id")
	viewer := middleware.GetUserFromContext(c)

	own := false
	if id == "" {
		if viewer == nil {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		id = viewer.ID
		own = true
	} else if viewer != nil && viewer.ID == id {
		own = true
	}

	userAuth, err := h.authService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.RenderNotFound(c)
			return
		}
		h.Logger.Error("Profile lookup failed", zap.Error(err), zap.String("profileID", id))
		c.Redirect(http.StatusFound, "/404")
		return
	}

	items, err := h.listings.ListBySeller(c.Request.Context(), id)
	if err != nil {
		h.Logger.Warn("Profile listings unavailable", zap.Error(err), zap.String("profileID", id))
		items = nil
	}

	profile := &models.User{
		ID:       userAuth.ID,
		Name:     userAuth.Username,
		Email:    userAuth.Email,
		IsSeller: userAuth.IsSeller,
	}
	h.Render(c, http.StatusOK, userAuth.Username, "", pages.ProfilePage(profile, items, own))
}
