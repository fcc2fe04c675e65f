package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asdiayu/Bot-flow-cash/internal/api/middleware"
	"github.com/asdiayu/Bot-flow-cash/internal/dispatch"
	"github.com/asdiayu/Bot-flow-cash/internal/logger"
)

// recordingBot records the conversation calls the webhook produces.
type recordingBot struct {
	messages  []string // "owner|text"
	callbacks []string // "owner|messageID|data"
}

func (b *recordingBot) HandleMessage(ctx context.Context, ownerID, text string) {
	b.messages = append(b.messages, ownerID+"|"+text)
}

func (b *recordingBot) HandleCallback(ctx context.Context, ownerID, messageID, data string) {
	b.callbacks = append(b.callbacks, ownerID+"|"+messageID+"|"+data)
}

// inlineSubmitter runs tasks synchronously so tests can assert right after
// the request returns.
type inlineSubmitter struct {
	err error
}

func (s *inlineSubmitter) Submit(ctx context.Context, ownerID string, task dispatch.Task) error {
	if s.err != nil {
		return s.err
	}
	task(ctx)
	return nil
}

func postWebhook(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	return rec
}

func TestHandleUpdate_Message(t *testing.T) {
	bot := &recordingBot{}
	h := NewWebhookHandler(bot, &inlineSubmitter{}, logger.NewWithWriter(io.Discard))

	rec := postWebhook(t, h, `{"owner_id":"alice","message":{"text":"beli kopi 25000"}}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "accepted" || resp["update_id"] == "" {
		t.Errorf("response = %v", resp)
	}
	if len(bot.messages) != 1 || bot.messages[0] != "alice|beli kopi 25000" {
		t.Errorf("messages = %v", bot.messages)
	}
	if len(bot.callbacks) != 0 {
		t.Errorf("unexpected callbacks: %v", bot.callbacks)
	}
}

func TestHandleUpdate_Callback(t *testing.T) {
	bot := &recordingBot{}
	h := NewWebhookHandler(bot, &inlineSubmitter{}, logger.NewWithWriter(io.Discard))

	rec := postWebhook(t, h, `{"owner_id":"alice","callback":{"message_id":"msg-7","data":"delete:tx-1"}}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if len(bot.callbacks) != 1 || bot.callbacks[0] != "alice|msg-7|delete:tx-1" {
		t.Errorf("callbacks = %v", bot.callbacks)
	}
}

func TestHandleUpdate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing owner", `{"message":{"text":"hi"}}`},
		{"neither message nor callback", `{"owner_id":"alice"}`},
		{"both message and callback", `{"owner_id":"alice","message":{"text":"hi"},"callback":{"message_id":"m","data":"d"}}`},
		{"blank text", `{"owner_id":"alice","message":{"text":"  "}}`},
		{"empty callback data", `{"owner_id":"alice","callback":{"message_id":"m","data":""}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &recordingBot{}
			h := NewWebhookHandler(bot, &inlineSubmitter{}, logger.NewWithWriter(io.Discard))

			rec := postWebhook(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(bot.messages)+len(bot.callbacks) != 0 {
				t.Error("rejected update reached the bot")
			}
		})
	}
}

func TestHandleUpdate_LogsRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewWebhookHandler(&recordingBot{}, &inlineSubmitter{}, logger.NewWithWriter(buf))
	wrapped := middleware.RequestID(http.HandlerFunc(h.HandleUpdate))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"owner_id":"alice","message":{"text":"saldo"}}`))
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "request_id") || !strings.Contains(out, "req-42") {
		t.Errorf("accepted event missing request id, got: %s", out)
	}
}

func TestHandleUpdate_SubmitFailure(t *testing.T) {
	bot := &recordingBot{}
	h := NewWebhookHandler(bot, &inlineSubmitter{err: errors.New("dispatcher is closed")}, logger.NewWithWriter(io.Discard))

	rec := postWebhook(t, h, `{"owner_id":"alice","message":{"text":"hi"}}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	degraded := NewHealthHandler(func(ctx context.Context) error {
		return errors.New("connection refused")
	})
	rec = httptest.NewRecorder()
	degraded.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
