package orders

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/domain/listings"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
	"github.com/servomart/servomart/internal/observability"
)

const maxWebhookBody = 64 << 10

// PaymentProvider is the Stripe surface the order flow needs.
type PaymentProvider interface {
	CreateCheckoutSession(listing *models.Listing, userID, userEmail string) (string, error)
	GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error)
	ListLineItems(sessionID string) (quantity int64, productID string, err error)
	RefundPayment(paymentIntentID, customerReason, reasonDetails string) (string, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type OrderHandlers struct {
	*domain.BaseHandler
	repo     Repository
	listings listings.Repository
	payments PaymentProvider
}

func NewOrderHandlers(base *domain.BaseHandler, repo Repository, listingRepo listings.Repository, payments PaymentProvider) *OrderHandlers {
	return &OrderHandlers{BaseHandler: base, repo: repo, listings: listingRepo, payments: payments}
}

// OrdersPageHandler serves /orders for the signed-in user.
func (h *OrderHandlers) OrdersPageHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	items, err := h.repo.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.Logger.Error("Orders page failed", zap.Error(err), zap.String("userID", user.ID))
		h.Alerts.Enqueue(c, models.AlertError, "Your orders are temporarily unavailable.")
		items = nil
	}
	h.Render(c, http.StatusOK, "Orders", "Orders", pages.OrdersPage(items))
}

// SuccessPageHandler serves /success?session_id=... after checkout. The order
// row is written by the webhook, so it may not exist yet when the buyer lands
// here; the page copes with that.
func (h *OrderHandlers) SuccessPageHandler(c *gin.Context) {
	sessionID := c.Query("session_id")
	var order *models.Order
	if sessionID != "" {
		var err error
		order, err = h.repo.GetByCheckoutSession(c.Request.Context(), sessionID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			h.Logger.Warn("Success page order lookup failed", zap.Error(err),
				zap.String("sessionID", sessionID))
		}
	}
	h.Render(c, http.StatusOK, "Order complete", "", pages.SuccessPage(order))
}

// CheckoutHandler opens a Stripe checkout for one listing and sends the buyer
// to Stripe's hosted page.
func (h *OrderHandlers) CheckoutHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	listingID, err := uuid.Parse(c.Param("listingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	listing, err := h.listings.GetByID(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.RenderNotFound(c)
			return
		}
		h.Logger.Error("Checkout listing lookup failed", zap.Error(err),
			zap.String("listingID", listingID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout unavailable"})
		return
	}

	url, err := h.payments.CreateCheckoutSession(listing, user.ID, user.Email)
	if err != nil {
		h.Logger.Error("Checkout session failed", zap.Error(err),
			zap.String("listingID", listingID.String()), zap.String("userID", user.ID))
		h.Alerts.Enqueue(c, models.AlertError, "Checkout is temporarily unavailable. Try again shortly.")
		c.Redirect(http.StatusSeeOther, "/item/"+listing.Username+"/"+listing.Slug)
		return
	}

	observability.CheckoutSessionsTotal.Inc()
	c.Redirect(http.StatusSeeOther, url)
}

// RefundHandler processes PUT /api/stripe/refunds/:orderID. The orders page
// posts the same route with a _method override.
func (h *OrderHandlers) RefundHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.repo.GetByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refund unavailable"})
		return
	}
	if order.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return
	}

	reason := c.PostForm("cancel_reason")
	details := strings.TrimSpace(c.PostForm("cancel_reason_details"))
	refundID, err := h.payments.RefundPayment(order.StripePaymentIntentID, reason, details)
	if err != nil {
		h.Logger.Error("Refund failed", zap.Error(err), zap.String("orderID", orderID.String()))
		h.finishRefund(c, false, "The refund could not be processed.")
		return
	}

	if err := h.repo.MarkRefunded(c.Request.Context(), orderID, refundID); err != nil {
		h.Logger.Error("Refund bookkeeping failed", zap.Error(err),
			zap.String("orderID", orderID.String()), zap.String("refundID", refundID))
		h.finishRefund(c, false, "The refund was issued but could not be recorded. Contact support.")
		return
	}

	observability.RefundsTotal.Inc()
	h.finishRefund(c, true, "Your refund is on its way.")
}

func (h *OrderHandlers) finishRefund(c *gin.Context, ok bool, message string) {
	if c.Request.Method == http.MethodPost {
		severity := models.AlertError
		if ok {
			severity = models.AlertSuccess
		}
		h.Alerts.Enqueue(c, severity, message)
		c.Redirect(http.StatusSeeOther, "/orders")
		return
	}
	status := http.StatusBadGateway
	if ok {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"ok": ok, "message": message})
}

// WebhookHandler records orders from checkout.session.completed events.
func (h *OrderHandlers) WebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	event, err := h.payments.ConstructWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.Logger.Warn("Webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}
	observability.WebhookEventsTotal.WithLabelValues(string(event.Type)).Inc()

	if event.Type != "checkout.session.completed" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.Logger.Error("Webhook session decode failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	order := orderFromSession(&sess)
	if quantity, productID, err := h.payments.ListLineItems(sess.ID); err == nil {
		order.Quantity = quantity
		order.ProductID = productID
	} else {
		h.Logger.Warn("Webhook line items unavailable", zap.Error(err), zap.String("sessionID", sess.ID))
		order.Quantity = 1
	}

	if _, err := h.repo.Create(c.Request.Context(), order); err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Stripe retries deliveries; a replay is not an error.
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		h.Logger.Error("Webhook order create failed", zap.Error(err), zap.String("sessionID", sess.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order not recorded"})
		return
	}

	observability.OrdersCreatedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func orderFromSession(sess *stripe.CheckoutSession) *models.Order {
	order := &models.Order{
		UserID:                  sess.ClientReferenceID,
		StripeCheckoutSessionID: sess.ID,
		AmountCents:             sess.AmountTotal,
		Currency:                string(sess.Currency),
		Status:                  "succeeded",
		Quantity:                1,
	}
	if order.UserID == "" {
		order.UserID = sess.Metadata["user_id"]
	}
	if sess.PaymentIntent != nil {
		order.StripePaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.CustomerDetails != nil {
		order.UserEmail = sess.CustomerDetails.Email
	}
	if ci := sess.CollectedInformation; ci != nil && ci.ShippingDetails != nil {
		order.ShippingName = ci.ShippingDetails.Name
		if addr := ci.ShippingDetails.Address; addr != nil {
			order.ShippingAddressLine1 = addr.Line1
			order.ShippingAddressLine2 = addr.Line2
			order.ShippingCity = addr.City
			order.ShippingState = addr.State
			order.ShippingPostalCode = addr.PostalCode
			order.ShippingCountry = addr.Country
		}
	}
	return order
}
