package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"turnero/models"

	"go.uber.org/zap"
)

const graphAPIBase = "https://graph.facebook.com/v19.0"

// WhatsAppSender sends text messages through the WhatsApp Cloud API.
type WhatsAppSender struct {
	Token   string
	PhoneID string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewWhatsAppSender constructs a sender with a sane request timeout.
func NewWhatsAppSender(token, phoneID string, logger *zap.Logger) *WhatsAppSender {
	return &WhatsAppSender{
		Token:   token,
		PhoneID: phoneID,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Logger:  logger,
	}
}

type whatsAppTextPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

func (s *WhatsAppSender) Send(ctx context.Context, customerID, text string) error {
	payload := whatsAppTextPayload{
		MessagingProduct: "whatsapp",
		To:               customerID,
		Type:             "text",
	}
	payload.Text.Body = text

	body, err := json.Marshal(payload)
	if err != nil {
		return models.NewTransportError("marshal message", err)
	}

	url := fmt.Sprintf("%s/%s/messages", graphAPIBase, s.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return models.NewTransportError("build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return models.NewTransportError("send message", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.Logger.Warn("whatsapp send rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("to", customerID),
			zap.ByteString("response", respBody))
		return models.NewTransportError("send message", fmt.Errorf("whatsapp API status %d", resp.StatusCode))
	}
	return nil
}
