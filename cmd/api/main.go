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

	"github.com/Oinktech2024/Techie-AI/internal/config"
	"github.com/Oinktech2024/Techie-AI/internal/handler"
	"github.com/Oinktech2024/Techie-AI/internal/model/persona"
	adminservice "github.com/Oinktech2024/Techie-AI/internal/service/admin"
	"github.com/Oinktech2024/Techie-AI/internal/service/ai"
	chatservice "github.com/Oinktech2024/Techie-AI/internal/service/chat"
	"github.com/Oinktech2024/Techie-AI/internal/service/gateway"
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

	registry, err := buildRegistry(cfg.Personas)
	if err != nil {
		log.Fatalf("failed to initialize persona registry: %v", err)
	}

	store := chatservice.NewStore(cfg.SessionTTL)
	if cfg.SessionTTL > 0 {
		go store.Janitor(ctx, time.Minute)
		log.Printf("session expiry enabled, ttl=%s", cfg.SessionTTL)
	}

	client := ai.NewOpenAIClient(cfg.Upstream.APIKey, cfg.Upstream.BaseURL, cfg.Upstream.Model)
	gw := gateway.NewService(store, registry, client, cfg.Personas.DefaultID)

	gate := adminservice.NewGate(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.TokenTTL)
	if !cfg.Admin.AdminEnabled() {
		log.Println("管理憑證未配置，管理介面將拒絕所有登入")
	}

	router := handler.NewRouter(gw, registry, store, gate)

	startServer(ctx, cfg.Addr(), router)
}

func buildRegistry(cfg config.PersonaConfig) (persona.Registry, error) {
	seed := persona.Seed()
	if cfg.SeedPath != "" {
		loaded, err := persona.LoadSeedFile(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		seed = loaded
		log.Printf("loaded %d personas from %s", len(loaded), cfg.SeedPath)
	}

	if cfg.StorePath == "" {
		return persona.NewMemoryRegistry(seed)
	}

	store, err := persona.NewFileStore(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	return persona.NewPersistentRegistry(seed, store)
}

func startServer(ctx context.Context, addr string, router http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Techie-AI gateway listening on %s", addr)
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
