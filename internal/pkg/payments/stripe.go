// Package payments wraps the Stripe API surface ServoMart uses: checkout
// sessions, payment intents, refunds, webhooks and Connect payouts.
package payments

import (
	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/account"
	"github.com/stripe/stripe-go/v83/accountlink"
	"github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/loginlink"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/product"
	"github.com/stripe/stripe-go/v83/refund"
	"github.com/stripe/stripe-go/v83/webhook"

	"github.com/servomart/servomart/internal/app/models"
)

// Checkout quantity limits for a single hardware order.
const (
	MinCheckoutQuantity = 1
	MaxCheckoutQuantity = 10
)

// RefundReasonOther requires free-text details from the customer.
const RefundReasonOther = "Other"

type StripeProvider struct {
	webhookSecret string
	baseURL       string
}

func NewStripeProvider(apiKey, webhookSecret, baseURL string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{webhookSecret: webhookSecret, baseURL: baseURL}
}

// CreatePaymentIntent opens a payment intent with automatic payment methods,
// returning the id and the client secret for the payment element.
func (s *StripeProvider) CreatePaymentIntent(amountCents int64, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Metadata: metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to create payment intent")
	}
	return pi.ID, pi.ClientSecret, nil
}

// CreateCheckoutSession opens a hosted checkout for one listing. Quantity is
// adjustable between 1 and 10, tax is computed automatically, and the buyer
// picks free ground or paid express shipping.
func (s *StripeProvider) CreateCheckoutSession(listing *models.Listing, userID, userEmail string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(userID),
		CustomerEmail:     stripe.String(userEmail),
		SuccessURL:        stripe.String(s.baseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.baseURL + "/item/" + listing.Username + "/" + listing.Slug),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(MinCheckoutQuantity),
				AdjustableQuantity: &stripe.CheckoutSessionLineItemAdjustableQuantityParams{
					Enabled: stripe.Bool(true),
					Minimum: stripe.Int64(MinCheckoutQuantity),
					Maximum: stripe.Int64(MaxCheckoutQuantity),
				},
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(listing.Currency),
					UnitAmount:  stripe.Int64(listing.PriceCents),
					TaxBehavior: stripe.String(string(stripe.PriceTaxBehaviorExclusive)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(listing.Title),
						Metadata: map[string]string{
							"listing_id": listing.ID.String(),
						},
					},
				},
			},
		},
		AutomaticTax: &stripe.CheckoutSessionAutomaticTaxParams{
			Enabled: stripe.Bool(true),
		},
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"US", "CA"}),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			shippingOption("Free ground shipping", 0, 5, 10),
			shippingOption("Express shipping", 2500, 1, 3),
		},
		Metadata: map[string]string{
			"user_id":    userID,
			"listing_id": listing.ID.String(),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to create checkout session")
	}
	return sess.URL, nil
}

func shippingOption(name string, amountCents, minDays, maxDays int64) *stripe.CheckoutSessionShippingOptionParams {
	return &stripe.CheckoutSessionShippingOptionParams{
		ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
			DisplayName: stripe.String(name),
			Type:        stripe.String("fixed_amount"),
			FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
				Amount:   stripe.Int64(amountCents),
				Currency: stripe.String("usd"),
			},
			DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
				Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
					Unit:  stripe.String("business_day"),
					Value: stripe.Int64(minDays),
				},
				Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
					Unit:  stripe.String("business_day"),
					Value: stripe.Int64(maxDays),
				},
			},
		},
	}
}

// GetCheckoutSession retrieves a finished session for the success page.
func (s *StripeProvider) GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkout session")
	}
	return sess, nil
}

// ListLineItems sums the purchased quantity and resolves the product id for
// a completed session. Webhook payloads do not carry line items.
func (s *StripeProvider) ListLineItems(sessionID string) (quantity int64, productID string, err error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}

	iter := session.ListLineItems(params)
	for iter.Next() {
		item := iter.LineItem()
		quantity += item.Quantity
		if productID == "" && item.Price != nil && item.Price.Product != nil {
			productID = item.Price.Product.ID
		}
	}
	if err := iter.Err(); err != nil {
		return 0, "", errors.Wrap(err, "failed to list session line items")
	}
	return quantity, productID, nil
}

// RefundPayment refunds the full payment. The customer-chosen reason lands in
// metadata; details are mandatory when the reason is Other.
func (s *StripeProvider) RefundPayment(paymentIntentID, customerReason, reasonDetails string) (string, error) {
	if customerReason == RefundReasonOther && reasonDetails == "" {
		return "", errors.New("refund reason details are required when the reason is Other")
	}

	metadata := map[string]string{"customer_reason": customerReason}
	if reasonDetails != "" {
		metadata["customer_reason_details"] = reasonDetails
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
		Metadata:      metadata,
	}

	ref, err := refund.New(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to create refund")
	}
	return ref.ID, nil
}

// GetProduct resolves a Stripe product id to its current definition.
func (s *StripeProvider) GetProduct(productID string) (*stripe.Product, error) {
	p, err := product.Get(productID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}
	return p, nil
}

// ConstructWebhookEvent verifies the signature and parses the event payload.
func (s *StripeProvider) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return stripe.Event{}, errors.Wrap(err, "webhook signature verification failed")
	}
	return event, nil
}

// Connect methods for seller payouts.

// CreateConnectedAccount opens a Stripe Connect Express account for a seller.
func (s *StripeProvider) CreateConnectedAccount(userID, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String("express"),
		Email: stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
		Metadata: map[string]string{"user_id": userID},
	}

	acct, err := account.New(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to create connected account")
	}
	return acct.ID, nil
}

// CreateAccountLink builds the hosted onboarding flow link.
func (s *StripeProvider) CreateAccountLink(accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.baseURL + "/sell/onboarding"),
		ReturnURL:  stripe.String(s.baseURL + "/sell/dashboard"),
		Type:       stripe.String("account_onboarding"),
	}

	link, err := accountlink.New(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to create account link")
	}
	return link.URL, nil
}

// CreateLoginLink builds an Express dashboard login link.
func (s *StripeProvider) CreateLoginLink(accountID string) (string, error) {
	params := &stripe.LoginLinkParams{
		Account: stripe.String(accountID),
	}

	link, err := loginlink.New(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to create login link")
	}
	return link.URL, nil
}

// GetConnectedAccount fetches the account so callers can check capabilities.
func (s *StripeProvider) GetConnectedAccount(accountID string) (*stripe.Account, error) {
	acct, err := account.GetByID(accountID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get connected account")
	}
	return acct, nil
}

// DeleteConnectedAccount removes the Connect account entirely.
func (s *StripeProvider) DeleteConnectedAccount(accountID string) error {
	if _, err := account.Del(accountID, nil); err != nil {
		return errors.Wrap(err, "failed to delete connected account")
	}
	return nil
}
