package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asdiayu/Bot-flow-cash/internal/api/handlers"
	"github.com/asdiayu/Bot-flow-cash/internal/api/middleware"
	"github.com/asdiayu/Bot-flow-cash/internal/bot"
	"github.com/asdiayu/Bot-flow-cash/internal/completion"
	"github.com/asdiayu/Bot-flow-cash/internal/config"
	"github.com/asdiayu/Bot-flow-cash/internal/dispatch"
	"github.com/asdiayu/Bot-flow-cash/internal/intent"
	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
	"github.com/asdiayu/Bot-flow-cash/internal/logger"
	"github.com/asdiayu/Bot-flow-cash/internal/report"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Ledger store
	store, err := ledger.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema")
	}

	// Completion gateway: SDK-backed primary, raw REST secondary
	primary, err := completion.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create primary provider")
	}
	secondary := completion.NewRESTProvider(cfg.GeminiAPIKey, cfg.FallbackModel)
	gateway := completion.NewGateway(primary, secondary, logger.WithComponent(log, "completion"))

	router := intent.NewRouter(gateway, logger.WithComponent(log, "intent"))
	reporter := report.NewSynthesizer(gateway, nil, logger.WithComponent(log, "report"))

	// The chat transport is deployment-specific; until one is wired in,
	// outbound replies are emitted as structured log events.
	messenger := &logMessenger{log: logger.WithComponent(log, "messenger")}

	assistant := bot.New(store, router, gateway, reporter, messenger, logger.WithComponent(log, "bot"))

	// Per-owner task lanes
	taskCtx, cancelTasks := context.WithCancel(ctx)
	defer cancelTasks()
	dispatcher := dispatch.New(taskCtx, 64, log)

	// Handlers and router
	webhookHandler := handlers.NewWebhookHandler(assistant, dispatcher, logger.WithComponent(log, "api"))
	healthHandler := handlers.NewHealthHandler(store.Ping)

	mux := http.NewServeMux()

	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			webhookHandler.HandleUpdate(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			healthHandler.Health(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(mux),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting webhook server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Let accepted updates finish before closing the store.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Dispatcher shutdown timed out")
		cancelTasks()
	}

	log.Info().Msg("Server exited")
}

// logMessenger is the stand-in chat transport. It satisfies bot.Messenger
// by logging outbound replies instead of delivering them.
type logMessenger struct {
	log zerolog.Logger
}

func (m *logMessenger) Send(ctx context.Context, ownerID, text string) (string, error) {
	id := uuid.New().String()
	m.log.Info().
		Str("owner_id", ownerID).
		Str("message_id", id).
		Str("text", text).
		Msg("outbound message")
	return id, nil
}

func (m *logMessenger) SendWithButtons(ctx context.Context, ownerID, text string, buttons [][]bot.Button) (string, error) {
	id := uuid.New().String()
	m.log.Info().
		Str("owner_id", ownerID).
		Str("message_id", id).
		Str("text", text).
		Interface("buttons", buttons).
		Msg("outbound message")
	return id, nil
}

func (m *logMessenger) EditMessage(ctx context.Context, ownerID, messageID, text string, buttons [][]bot.Button) error {
	m.log.Info().
		Str("owner_id", ownerID).
		Str("message_id", messageID).
		Str("text", text).
		Interface("buttons", buttons).
		Msg("outbound message edit")
	return nil
}
