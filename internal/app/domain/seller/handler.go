// Package seller runs Stripe Connect onboarding and the seller dashboard.
package seller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
)

// ConnectProvider is the Stripe Connect surface onboarding needs.
type ConnectProvider interface {
	CreateConnectedAccount(userID, email string) (string, error)
	CreateAccountLink(accountID string) (string, error)
	CreateLoginLink(accountID string) (string, error)
	GetConnectedAccount(accountID string) (*stripe.Account, error)
	DeleteConnectedAccount(accountID string) error
}

type SellerHandlers struct {
	*domain.BaseHandler
	repo    Repository
	connect ConnectProvider
}

func NewSellerHandlers(base *domain.BaseHandler, repo Repository, connect ConnectProvider) *SellerHandlers {
	return &SellerHandlers{BaseHandler: base, repo: repo, connect: connect}
}

// OnboardingPageHandler serves /sell/onboarding.
func (h *SellerHandlers) OnboardingPageHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	accountID, err := h.repo.GetConnectAccountID(c.Request.Context(), user.ID)
	if err != nil {
		h.Logger.Error("Onboarding page failed", zap.Error(err), zap.String("userID", user.ID))
		accountID = ""
	}
	h.Render(c, http.StatusOK, "Start selling", "", pages.OnboardingPage(accountID != ""))
}

// StartOnboardingHandler creates (or reuses) the Connect account and sends
// the user into Stripe's hosted onboarding.
func (h *SellerHandlers) StartOnboardingHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	l := h.Logger.With(zap.String("userID", user.ID))

	accountID, err := h.repo.GetConnectAccountID(c.Request.Context(), user.ID)
	if err != nil {
		l.Error("Connect account lookup failed", zap.Error(err))
		h.failOnboarding(c, "Onboarding is temporarily unavailable.")
		return
	}

	if accountID == "" {
		accountID, err = h.connect.CreateConnectedAccount(user.ID, user.Email)
		if err != nil {
			l.Error("Connect account creation failed", zap.Error(err))
			h.failOnboarding(c, "Stripe could not create your seller account.")
			return
		}
		if err := h.repo.SetConnectAccountID(c.Request.Context(), user.ID, accountID); err != nil {
			l.Error("Connect account save failed", zap.Error(err), zap.String("accountID", accountID))
			h.failOnboarding(c, "Onboarding is temporarily unavailable.")
			return
		}
	}

	url, err := h.connect.CreateAccountLink(accountID)
	if err != nil {
		l.Error("Account link failed", zap.Error(err), zap.String("accountID", accountID))
		h.failOnboarding(c, "Stripe could not start onboarding. Try again.")
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}

// DashboardPageHandler serves /sell/dashboard. Landing here after onboarding
// is what promotes the account to seller status.
func (h *SellerHandlers) DashboardPageHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	accountID, err := h.repo.GetConnectAccountID(c.Request.Context(), user.ID)
	if err != nil || accountID == "" {
		c.Redirect(http.StatusFound, "/sell/onboarding")
		return
	}

	acct, err := h.connect.GetConnectedAccount(accountID)
	if err != nil {
		h.Logger.Error("Connect account fetch failed", zap.Error(err),
			zap.String("userID", user.ID), zap.String("accountID", accountID))
		h.Alerts.Enqueue(c, models.AlertError, "Stripe is unreachable right now.")
		h.Render(c, http.StatusOK, "Seller dashboard", "", pages.SellerDashboardPage(false, false))
		return
	}

	if acct.ChargesEnabled && !user.IsSeller {
		if err := h.repo.SetSeller(c.Request.Context(), user.ID, true); err != nil {
			h.Logger.Error("Seller promotion failed", zap.Error(err), zap.String("userID", user.ID))
		}
	}
	h.Render(c, http.StatusOK, "Seller dashboard", "",
		pages.SellerDashboardPage(acct.ChargesEnabled, acct.PayoutsEnabled))
}

// DashboardLoginHandler sends the seller to their Stripe Express dashboard.
func (h *SellerHandlers) DashboardLoginHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	accountID, err := h.repo.GetConnectAccountID(c.Request.Context(), user.ID)
	if err != nil || accountID == "" {
		c.Redirect(http.StatusFound, "/sell/onboarding")
		return
	}

	url, err := h.connect.CreateLoginLink(accountID)
	if err != nil {
		h.Logger.Error("Login link failed", zap.Error(err), zap.String("accountID", accountID))
		h.Alerts.Enqueue(c, models.AlertError, "Stripe dashboard is unreachable right now.")
		c.Redirect(http.StatusSeeOther, "/sell/dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}

// DeleteConnectPageHandler serves the /delete-connect confirmation.
func (h *SellerHandlers) DeleteConnectPageHandler(c *gin.Context) {
	if middleware.GetUserFromContext(c) == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.Render(c, http.StatusOK, "Disconnect Stripe", "", pages.DeleteConnectPage())
}

// DeleteConnectHandler tears down the Connect account and demotes the seller.
func (h *SellerHandlers) DeleteConnectHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	l := h.Logger.With(zap.String("userID", user.ID))

	accountID, err := h.repo.GetConnectAccountID(c.Request.Context(), user.ID)
	if err != nil {
		l.Error("Connect account lookup failed", zap.Error(err))
		h.Alerts.Enqueue(c, models.AlertError, "Something went wrong. Try again.")
		c.Redirect(http.StatusSeeOther, "/account")
		return
	}

	if accountID != "" {
		if err := h.connect.DeleteConnectedAccount(accountID); err != nil {
			l.Error("Connect account deletion failed", zap.Error(err), zap.String("accountID", accountID))
			h.Alerts.Enqueue(c, models.AlertError, "Stripe could not remove your account. Try again.")
			c.Redirect(http.StatusSeeOther, "/delete-connect")
			return
		}
	}

	if err := h.repo.ClearConnectAccount(c.Request.Context(), user.ID); err != nil {
		l.Error("Connect account clear failed", zap.Error(err))
	}
	h.Alerts.Enqueue(c, models.AlertInfo, "Your Stripe account was disconnected.")
	c.Redirect(http.StatusSeeOther, "/account")
}

func (h *SellerHandlers) failOnboarding(c *gin.Context, message string) {
	h.Alerts.Enqueue(c, models.AlertError, message)
	c.Redirect(http.StatusSeeOther, "/sell/onboarding")
}
