package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zerocost/scheduler-backend/internal/config"
	"github.com/zerocost/scheduler-backend/internal/handler"
	"github.com/zerocost/scheduler-backend/internal/service/chat"
	"github.com/zerocost/scheduler-backend/internal/service/inference"
	"github.com/zerocost/scheduler-backend/internal/service/scheduler"
	"github.com/zerocost/scheduler-backend/internal/store"
	"github.com/zerocost/scheduler-backend/internal/timectx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Session history store: sqlite when a path is configured, memory otherwise.
	var historyStore store.HistoryStore
	if cfg.Store.DBPath != "" {
		sqliteStore, err := store.OpenSQLite(cfg.Store.DBPath, cfg.Store.TTL)
		if err != nil {
			log.Fatalf("failed to open history store: %v", err)
		}
		defer sqliteStore.Close()
		historyStore = sqliteStore
		log.Printf("history store: sqlite at %s (ttl %v)", cfg.Store.DBPath, cfg.Store.TTL)
	} else {
		historyStore = store.NewMemory(cfg.Store.TTL)
		log.Printf("history store: in-memory (ttl %v)", cfg.Store.TTL)
	}

	if !cfg.Inference.Enabled() {
		log.Println("warning: no inference provider credentials configured, chat turns will fail")
	}
	gateway := inference.NewGateway(
		inference.Params{
			Temperature: cfg.Inference.Temperature,
			MaxTokens:   cfg.Inference.MaxTokens,
		},
		newProvider(cfg.Inference.Primary, cfg.Inference.Timeout),
		newProvider(cfg.Inference.Secondary, cfg.Inference.Timeout),
	)

	chatService := chat.NewService(historyStore, timectx.NewBuilder(), gateway)

	var dispatcher *scheduler.Dispatcher
	if cfg.Calendar.Enabled() {
		calClient := scheduler.NewCalClient(cfg.Calendar.BaseURL, cfg.Calendar.APIKey, 30*time.Second)
		dispatcher = scheduler.NewDispatcher(calClient)
		log.Println("scheduler action execution enabled")
	} else {
		log.Println("scheduler action execution disabled, replies are returned verbatim")
	}

	router := handler.NewRouter(chatService, dispatcher)

	startServer(ctx, cfg.Server, router)
}

func newProvider(p config.ProviderConfig, timeout time.Duration) *inference.Provider {
	return inference.NewProvider(p.Name, p.BaseURL, p.APIKey, p.Model, timeout)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("scheduler backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
