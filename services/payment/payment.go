package payment

import (
	"context"
	"math"

	"turnero/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// Linker creates a hosted payment link for a pending booking. Payment
// resolution arrives later, out-of-band, through the payment webhook.
type Linker interface {
	CreatePaymentLink(ctx context.Context, booking *models.Booking, svc *models.Service) (string, error)
}

// StripeLinker creates Stripe Checkout sessions, one per booking, with the
// booking ID carried in metadata so the webhook can resolve it.
type StripeLinker struct {
	SuccessURL string
	CancelURL  string
	Logger     *zap.Logger
}

func NewStripeLinker(apiKey, successURL, cancelURL string, logger *zap.Logger) *StripeLinker {
	stripe.Key = apiKey
	return &StripeLinker{
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Logger:     logger,
	}
}

func (l *StripeLinker) CreatePaymentLink(ctx context.Context, booking *models.Booking, svc *models.Service) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(booking.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(svc.Name),
					},
					// Stripe wants the smallest currency unit.
					UnitAmount: stripe.Int64(int64(math.Round(booking.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(l.SuccessURL),
		CancelURL:  stripe.String(l.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", booking.ID)

	sess, err := session.New(params)
	if err != nil {
		l.Logger.Error("stripe checkout session failed",
			zap.String("bookingID", booking.ID), zap.Error(err))
		return "", err
	}
	return sess.URL, nil
}

// MapStripeEvent translates a Stripe webhook event type into the payment
// outcome the booking ledger understands.
func MapStripeEvent(eventType string) (models.PaymentOutcome, bool) {
	switch eventType {
	case "checkout.session.completed":
		return models.OutcomeApproved, true
	case "checkout.session.async_payment_succeeded":
		return models.OutcomeApproved, true
	case "checkout.session.async_payment_failed":
		return models.OutcomeRejected, true
	case "checkout.session.expired":
		return models.OutcomeRejected, true
	}
	return "", false
}
