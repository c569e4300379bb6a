package mpesa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fundis/models"

	"go.uber.org/zap"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0712345678", "254712345678"},
		{"254712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{"712345678", "254712345678"},
		{" 0712345678 ", "254712345678"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func newDarajaStub(t *testing.T, responseCode string, tokenCalls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			if tokenCalls != nil {
				*tokenCalls++
			}
			if r.Header.Get("Authorization") == "" {
				t.Error("token request missing basic auth")
			}
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "test-token",
				"expires_in":   "3599",
			})
		case "/mpesa/stkpush/v1/processrequest":
			if r.Header.Get("Authorization") != "Bearer test-token" {
				t.Errorf("STK push auth = %q", r.Header.Get("Authorization"))
			}
			var req models.STKPushRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode STK push body: %v", err)
			}
			if req.PhoneNumber != "254712345678" {
				t.Errorf("phone = %q, want normalized", req.PhoneNumber)
			}
			if req.Password == "" || req.Timestamp == "" {
				t.Error("password/timestamp not derived")
			}
			json.NewEncoder(w).Encode(models.STKPushResponse{
				MerchantRequestID:   "mr-1",
				CheckoutRequestID:   "ws_CO_test",
				ResponseCode:        responseCode,
				ResponseDescription: "Accepted for processing",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestInitiateChargeAccepted(t *testing.T) {
	var tokenCalls int
	srv := newDarajaStub(t, "0", &tokenCalls)
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", "174379", "passkey", "https://example.com/cb", zap.NewNop())

	resp, err := c.InitiateCharge(context.Background(), ChargeRequest{
		PhoneNumber: "0712345678",
		Amount:      1500,
		Reference:   "b-1",
		Description: "Plumbing booking",
	})
	if err != nil {
		t.Fatalf("InitiateCharge failed: %v", err)
	}
	if !resp.Accepted {
		t.Fatal("charge not accepted")
	}
	if resp.CheckoutRequestID != "ws_CO_test" {
		t.Errorf("checkout id = %q", resp.CheckoutRequestID)
	}

	// Second charge reuses the cached token.
	if _, err := c.InitiateCharge(context.Background(), ChargeRequest{PhoneNumber: "0712345678", Amount: 500, Reference: "b-2"}); err != nil {
		t.Fatalf("second InitiateCharge failed: %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("token fetched %d times, want 1", tokenCalls)
	}
}

func TestInitiateChargeRejected(t *testing.T) {
	srv := newDarajaStub(t, "1", nil)
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", "174379", "passkey", "https://example.com/cb", zap.NewNop())

	resp, err := c.InitiateCharge(context.Background(), ChargeRequest{
		PhoneNumber: "0712345678",
		Amount:      1500,
		Reference:   "b-1",
	})
	if err != nil {
		t.Fatalf("rejection must not be a transport error: %v", err)
	}
	if resp.Accepted {
		t.Fatal("rejected charge reported as accepted")
	}
}

func TestInitiateChargeTransportError(t *testing.T) {
	srv := newDarajaStub(t, "0", nil)
	srv.Close() // server down

	c := NewClient(srv.URL, "key", "secret", "174379", "passkey", "https://example.com/cb", zap.NewNop())
	if _, err := c.InitiateCharge(context.Background(), ChargeRequest{PhoneNumber: "0712345678", Amount: 100}); err == nil {
		t.Fatal("expected transport error")
	}
}
