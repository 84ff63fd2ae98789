// Package keys manages the opaque API credentials shown on /keys.
package keys

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
)

type KeyHandlers struct {
	*domain.BaseHandler
	svc Service
}

func NewKeyHandlers(base *domain.BaseHandler, svc Service) *KeyHandlers {
	return &KeyHandlers{BaseHandler: base, svc: svc}
}

// KeysPageHandler serves /keys.
func (h *KeyHandlers) KeysPageHandler(c *gin.Context) {
	h.renderKeys(c, "")
}

// CreateKeyHandler mints a key and renders the page once with the secret.
// There is no redirect: the secret must not survive a reload.
func (h *KeyHandlers) CreateKeyHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	secret, _, err := h.svc.Issue(c.Request.Context(), user.ID, c.PostForm("label"))
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			h.Alerts.Enqueue(c, models.AlertError, "Give the key a label.")
		} else {
			h.Logger.Error("API key issue failed", zap.Error(err), zap.String("userID", user.ID))
			h.Alerts.Enqueue(c, models.AlertError, "The key could not be created.")
		}
		c.Redirect(http.StatusSeeOther, "/keys")
		return
	}
	h.renderKeys(c, secret)
}

// RevokeKeyHandler disables a key from the /keys page.
func (h *KeyHandlers) RevokeKeyHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Alerts.Enqueue(c, models.AlertError, "Unknown key.")
		c.Redirect(http.StatusSeeOther, "/keys")
		return
	}

	if err := h.svc.Revoke(c.Request.Context(), user.ID, keyID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.Alerts.Enqueue(c, models.AlertError, "That key is already gone.")
		} else {
			h.Logger.Error("API key revoke failed", zap.Error(err), zap.String("keyID", keyID.String()))
			h.Alerts.Enqueue(c, models.AlertError, "The key could not be revoked.")
		}
	} else {
		h.Alerts.Enqueue(c, models.AlertSuccess, "Key revoked.")
	}
	c.Redirect(http.StatusSeeOther, "/keys")
}

func (h *KeyHandlers) renderKeys(c *gin.Context, freshSecret string) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	items, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		h.Logger.Error("API key list failed", zap.Error(err), zap.String("userID", user.ID))
		h.Alerts.Enqueue(c, models.AlertError, "Your keys are temporarily unavailable.")
		items = nil
	}
	h.Render(c, http.StatusOK, "API keys", "", pages.KeysPage(items, freshSecret))
}
