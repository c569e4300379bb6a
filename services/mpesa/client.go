package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"fundis/models"

	"go.uber.org/zap"
)

// ChargeRequest asks the gateway to start an STK push charge.
type ChargeRequest struct {
	PhoneNumber string
	Amount      float64
	Reference   string
	Description string
}

// ChargeResponse reports whether the gateway accepted the charge for
// processing. The final outcome arrives later via callback.
type ChargeResponse struct {
	CheckoutRequestID string
	MerchantRequestID string
	Accepted          bool
	Description       string
}

// Gateway initiates mobile-money charges. Initiation is never retried
// automatically: a duplicate STK push is a duplicate charge prompt.
type Gateway interface {
	InitiateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}

// Client talks to the M-Pesa Daraja API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string
	logger         *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds a Daraja gateway client with a bounded request timeout.
func NewClient(baseURL, consumerKey, consumerSecret, shortcode, passkey, callbackURL string, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		shortcode:      shortcode,
		passkey:        passkey,
		callbackURL:    callbackURL,
		logger:         logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	url := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = tok.AccessToken
	// Daraja tokens last an hour; refresh a minute early.
	c.tokenExpiry = time.Now().Add(59 * time.Minute)
	return c.accessToken, nil
}

// password derives the STK push credential for the given timestamp.
func (c *Client) password(ts string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.shortcode + c.passkey + ts))
}

// NormalizePhone converts local Kenyan formats to the 254 MSISDN form.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(strings.TrimPrefix(phone, "+"))
	switch {
	case strings.HasPrefix(phone, "254"):
		return phone
	case strings.HasPrefix(phone, "0"):
		return "254" + phone[1:]
	default:
		return "254" + phone
	}
}

// InitiateCharge starts an STK push. A nil error with Accepted=false
// means the gateway rejected the request; Description carries its
// reason. Transport-level failures return an error.
func (c *Client) InitiateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := time.Now().Format("20060102150405")
	phone := NormalizePhone(req.PhoneNumber)
	payload := models.STKPushRequest{
		BusinessShortCode: c.shortcode,
		Password:          c.password(ts),
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int(math.Round(req.Amount)),
		PartyA:            phone,
		PartyB:            c.shortcode,
		PhoneNumber:       phone,
		CallBackURL:       c.callbackURL,
		AccountReference:  req.Reference,
		TransactionDesc:   req.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal STK push request: %w", err)
	}

	url := c.baseURL + "/mpesa/stkpush/v1/processrequest"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to build STK push request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("STK push request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("failed to read STK push response: %w", err)
	}

	var stk models.STKPushResponse
	if err := json.Unmarshal(respBody, &stk); err != nil {
		return nil, fmt.Errorf("failed to decode STK push response: %w", err)
	}

	accepted := resp.StatusCode == http.StatusOK && stk.ResponseCode == "0"
	if !accepted {
		c.logger.Warn("M-Pesa rejected charge initiation",
			zap.String("reference", req.Reference),
			zap.String("response_code", stk.ResponseCode),
			zap.String("description", stk.ResponseDescription))
	} else {
		c.logger.Info("M-Pesa charge initiated",
			zap.String("reference", req.Reference),
			zap.String("checkout_request_id", stk.CheckoutRequestID))
	}

	return &ChargeResponse{
		CheckoutRequestID: stk.CheckoutRequestID,
		MerchantRequestID: stk.MerchantRequestID,
		Accepted:          accepted,
		Description:       stk.ResponseDescription,
	}, nil
}
