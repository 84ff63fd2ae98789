package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundPaymentOtherRequiresDetails(t *testing.T) {
	// Validation rejects the request before anything reaches Stripe, so no
	// API key or network is needed.
	p := NewStripeProvider("", "whsec_test", "http://localhost:8080")

	_, err := p.RefundPayment("pi_test_123", RefundReasonOther, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "details are required")
}
