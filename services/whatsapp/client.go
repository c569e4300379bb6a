package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fundis/models"

	"go.uber.org/zap"
)

// Transport sends outbound messages to a WhatsApp identity.
type Transport interface {
	SendText(ctx context.Context, to, body string) error
	SendInteractive(ctx context.Context, to string, payload models.InteractivePayload) error
}

// Client talks to the WhatsApp Cloud (Graph) API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
	logger        *zap.Logger
}

// NewClient builds a Graph API transport with a bounded request timeout.
func NewClient(baseURL, token, phoneNumberID string, logger *zap.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		baseURL:       baseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
		logger:        logger,
	}
}

type outboundMessage struct {
	MessagingProduct string                     `json:"messaging_product"`
	To               string                     `json:"to"`
	Type             string                     `json:"type"`
	Text             *models.WhatsAppText       `json:"text,omitempty"`
	Interactive      *models.InteractivePayload `json:"interactive,omitempty"`
}

// SendText delivers a plain text message. Sends are idempotent from
// the business side, so one retry is attempted on transport failure.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &models.WhatsAppText{Body: body},
	}
	return c.sendWithRetry(ctx, to, msg)
}

// SendInteractive delivers a structured (button/list) message.
func (c *Client) SendInteractive(ctx context.Context, to string, payload models.InteractivePayload) error {
	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive:      &payload,
	}
	return c.sendWithRetry(ctx, to, msg)
}

func (c *Client) sendWithRetry(ctx context.Context, to string, msg outboundMessage) error {
	err := c.send(ctx, msg)
	if err == nil {
		return nil
	}
	c.logger.Warn("WhatsApp send failed, retrying once",
		zap.String("to", to), zap.Error(err))
	if err := c.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send WhatsApp message to %s: %w", to, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, msg outboundMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
