package payment

import (
	"testing"

	"turnero/models"

	"github.com/stretchr/testify/assert"
)

func TestMapStripeEvent(t *testing.T) {
	cases := []struct {
		eventType string
		outcome   models.PaymentOutcome
		known     bool
	}{
		{"checkout.session.completed", models.OutcomeApproved, true},
		{"checkout.session.async_payment_succeeded", models.OutcomeApproved, true},
		{"checkout.session.async_payment_failed", models.OutcomeRejected, true},
		{"checkout.session.expired", models.OutcomeRejected, true},
		{"payment_intent.created", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		outcome, known := MapStripeEvent(tc.eventType)
		assert.Equal(t, tc.known, known, tc.eventType)
		assert.Equal(t, tc.outcome, outcome, tc.eventType)
	}
}
