package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"fundis/models"

	"go.uber.org/zap"
)

func TestSendText(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "12345", zap.NewNop())
	if err := c.SendText(context.Background(), "254700000001", "hello there"); err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	if got["to"] != "254700000001" || got["type"] != "text" {
		t.Errorf("payload = %v", got)
	}
	text, _ := got["text"].(map[string]any)
	if text["body"] != "hello there" {
		t.Errorf("body = %v", text["body"])
	}
}

func TestSendTextRetriesOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "12345", zap.NewNop())
	if err := c.SendText(context.Background(), "254700000001", "hello"); err != nil {
		t.Fatalf("SendText should succeed on retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestSendTextGivesUpAfterRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "12345", zap.NewNop())
	if err := c.SendText(context.Background(), "254700000001", "hello"); err == nil {
		t.Fatal("expected error after both attempts fail")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestSendInteractive(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "12345", zap.NewNop())
	payload := models.InteractivePayload{
		Type: "button",
		Body: models.InteractiveBody{Text: "Pick one"},
		Action: &models.InteractiveAction{Buttons: []models.InteractiveButton{
			{Type: "reply", Reply: models.InteractiveItem{ID: "opt-1", Title: "Book"}},
		}},
	}
	if err := c.SendInteractive(context.Background(), "254700000001", payload); err != nil {
		t.Fatalf("SendInteractive failed: %v", err)
	}
	if got["type"] != "interactive" {
		t.Errorf("payload type = %v", got["type"])
	}
}
