package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fundis/config"

	"github.com/gin-gonic/gin"
)

type recordedInbound struct {
	waID, text, profileName string
}

type fakeEngine struct {
	inbound []recordedInbound
}

func (e *fakeEngine) HandleInbound(ctx context.Context, waID, text, profileName string) error {
	e.inbound = append(e.inbound, recordedInbound{waID, text, profileName})
	return nil
}

func webhookRouter(engine *fakeEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &WebhookHandler{Engine: engine}
	r.GET("/api/webhook/whatsapp", h.Verify)
	r.POST("/api/webhook/whatsapp", h.Receive)
	return r
}

func TestWebhookVerification(t *testing.T) {
	config.AppConfig.WhatsAppVerifyToken = "secret-token"
	r := webhookRouter(&fakeEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "12345" {
		t.Errorf("body = %q, want the challenge echoed back", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet,
		"/api/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("bad token status = %d, want 403", w.Code)
	}
}

const inboundPayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "entry-1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "contacts": [{"wa_id": "254700000001", "profile": {"name": "Wanjiku"}}],
        "messages": [
          {"from": "254700000001", "id": "m-1", "type": "text", "text": {"body": "hi"}},
          {"from": "254700000001", "id": "m-2", "type": "image"},
          {"from": "254700000001", "id": "m-3", "type": "text", "text": {"body": "1"}}
        ]
      }
    }]
  }]
}`

func TestWebhookReceiveDispatchesTextMessages(t *testing.T) {
	engine := &fakeEngine{}
	r := webhookRouter(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/whatsapp", strings.NewReader(inboundPayload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(engine.inbound) != 2 {
		t.Fatalf("dispatched %d messages, want 2 (non-text skipped)", len(engine.inbound))
	}
	if engine.inbound[0].text != "hi" || engine.inbound[1].text != "1" {
		t.Errorf("messages = %+v", engine.inbound)
	}
	if engine.inbound[0].profileName != "Wanjiku" {
		t.Errorf("profile name = %q", engine.inbound[0].profileName)
	}
}

func TestWebhookReceiveMalformedBodyStill200(t *testing.T) {
	engine := &fakeEngine{}
	r := webhookRouter(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/whatsapp", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, malformed payloads must not trigger redelivery", w.Code)
	}
	if len(engine.inbound) != 0 {
		t.Errorf("malformed payload dispatched %d messages", len(engine.inbound))
	}
}
