package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asdiayu/Bot-flow-cash/internal/api/middleware"
	"github.com/asdiayu/Bot-flow-cash/internal/dispatch"
)

// Conversation is the bot surface the webhook feeds.
type Conversation interface {
	HandleMessage(ctx context.Context, ownerID, text string)
	HandleCallback(ctx context.Context, ownerID, messageID, data string)
}

// Submitter enqueues a task on an owner's lane.
type Submitter interface {
	Submit(ctx context.Context, ownerID string, task dispatch.Task) error
}

// WebhookHandler accepts chat updates and hands them to the dispatcher.
// The HTTP response only acknowledges receipt; replies go out through
// the messenger once the task runs.
type WebhookHandler struct {
	bot        Conversation
	dispatcher Submitter
	log        zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(bot Conversation, dispatcher Submitter, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		bot:        bot,
		dispatcher: dispatcher,
		log:        log,
	}
}

// webhookUpdate is one incoming chat event. Exactly one of Message or
// Callback must be set.
type webhookUpdate struct {
	OwnerID  string `json:"owner_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message,omitempty"`
	Callback *struct {
		MessageID string `json:"message_id"`
		Data      string `json:"data"`
	} `json:"callback,omitempty"`
}

// HandleUpdate handles POST /webhook
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update webhookUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(update.OwnerID) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	if (update.Message == nil) == (update.Callback == nil) {
		middleware.WriteError(w, http.StatusBadRequest, "Exactly one of message or callback is required")
		return
	}
	if update.Message != nil && strings.TrimSpace(update.Message.Text) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "message.text is required")
		return
	}
	if update.Callback != nil && update.Callback.Data == "" {
		middleware.WriteError(w, http.StatusBadRequest, "callback.data is required")
		return
	}

	updateID := uuid.New().String()
	ownerID := update.OwnerID
	log := h.log.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("update_id", updateID).
		Logger()

	var task dispatch.Task
	if update.Message != nil {
		text := update.Message.Text
		task = func(ctx context.Context) {
			h.bot.HandleMessage(ctx, ownerID, text)
		}
	} else {
		messageID := update.Callback.MessageID
		data := update.Callback.Data
		task = func(ctx context.Context) {
			h.bot.HandleCallback(ctx, ownerID, messageID, data)
		}
	}

	if err := h.dispatcher.Submit(r.Context(), ownerID, task); err != nil {
		log.Error().Err(err).Str("owner_id", ownerID).Msg("Failed to enqueue update")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Service is shutting down")
		return
	}

	log.Info().
		Str("owner_id", ownerID).
		Bool("callback", update.Callback != nil).
		Msg("Update accepted")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":    "accepted",
		"update_id": updateID,
	})
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler creates a health handler. ping probes the store and
// may be nil.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
