package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	bookingRepo "turnero/database/repository/booking"
	"turnero/models"
	"turnero/services/conversation"
	"turnero/services/messaging"
	"turnero/services/payment"
	"turnero/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// PaymentWebhookHandler ingests Stripe events, maps them onto payment
// outcomes, updates the booking ledger and tells the customer over the
// channel how their payment resolved.
type PaymentWebhookHandler struct {
	Bookings      bookingRepo.BookingRepository
	Sender        messaging.Sender
	WebhookSecret string
	Logger        *zap.Logger
}

func NewPaymentWebhookHandler(bookings bookingRepo.BookingRepository, sender messaging.Sender, webhookSecret string, logger *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		Bookings:      bookings,
		Sender:        sender,
		WebhookSecret: webhookSecret,
		Logger:        logger,
	}
}

func (h *PaymentWebhookHandler) HandleEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable body", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid signature", err.Error())
		return
	}

	outcome, known := payment.MapStripeEvent(string(event.Type))
	if !known {
		c.Status(http.StatusOK)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid event object", err.Error())
		return
	}
	bookingID := session.Metadata["booking_id"]
	if bookingID == "" {
		h.Logger.Warn("stripe event without booking metadata", zap.String("event", string(event.Type)))
		c.Status(http.StatusOK)
		return
	}

	ctx := c.Request.Context()
	booking, err := h.Bookings.UpdatePaymentOutcome(ctx, bookingID, outcome)
	if err != nil {
		h.Logger.Error("payment outcome update failed",
			zap.String("bookingID", bookingID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "update failed", err.Error())
		return
	}

	var text string
	switch outcome {
	case models.OutcomeApproved:
		text = conversation.RenderPaymentApproved(booking)
	case models.OutcomeRejected:
		text = conversation.RenderPaymentRejected()
	}
	if text != "" {
		if err := h.Sender.Send(ctx, booking.CustomerID, text); err != nil {
			h.Logger.Warn("payment notification failed",
				zap.String("customer", booking.CustomerID), zap.Error(err))
		}
	}
	c.Status(http.StatusOK)
}
