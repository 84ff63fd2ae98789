package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v83"
)

func TestOrderFromSessionMapsShipping(t *testing.T) {
	sess := &stripe.CheckoutSession{
		ID:                "cs_test_123",
		ClientReferenceID: "user-1",
		AmountTotal:       129900,
		Currency:          stripe.CurrencyUSD,
		PaymentIntent:     &stripe.PaymentIntent{ID: "pi_test_123"},
		CustomerDetails:   &stripe.CheckoutSessionCustomerDetails{Email: "ada@example.com"},
		CollectedInformation: &stripe.CheckoutSessionCollectedInformation{
			ShippingDetails: &stripe.CheckoutSessionCollectedInformationShippingDetails{
				Name: "Ada L",
				Address: &stripe.Address{
					Line1:      "1 Robot Way",
					Line2:      "Unit 4",
					City:       "Boston",
					State:      "MA",
					PostalCode: "02101",
					Country:    "US",
				},
			},
		},
	}

	order := orderFromSession(sess)

	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, "cs_test_123", order.StripeCheckoutSessionID)
	assert.Equal(t, "pi_test_123", order.StripePaymentIntentID)
	assert.Equal(t, "ada@example.com", order.UserEmail)
	assert.EqualValues(t, 129900, order.AmountCents)
	assert.Equal(t, "usd", order.Currency)
	assert.Equal(t, "succeeded", order.Status)
	assert.EqualValues(t, 1, order.Quantity)
	assert.Equal(t, "Ada L", order.ShippingName)
	assert.Equal(t, "1 Robot Way", order.ShippingAddressLine1)
	assert.Equal(t, "Unit 4", order.ShippingAddressLine2)
	assert.Equal(t, "Boston", order.ShippingCity)
	assert.Equal(t, "MA", order.ShippingState)
	assert.Equal(t, "02101", order.ShippingPostalCode)
	assert.Equal(t, "US", order.ShippingCountry)
}

func TestOrderFromSessionFallsBackToMetadataUser(t *testing.T) {
	sess := &stripe.CheckoutSession{
		ID:       "cs_test_456",
		Metadata: map[string]string{"user_id": "user-2"},
	}

	order := orderFromSession(sess)
	assert.Equal(t, "user-2", order.UserID)
}

func TestOrderFromSessionToleratesMissingShipping(t *testing.T) {
	order := orderFromSession(&stripe.CheckoutSession{ID: "cs_test_789"})

	assert.Empty(t, order.ShippingName)
	assert.Empty(t, order.ShippingCountry)
	assert.EqualValues(t, 1, order.Quantity)
}
