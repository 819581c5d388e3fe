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

	"github.com/PetarSt98/SmartAllies/internal/config"
	"github.com/PetarSt98/SmartAllies/internal/handler"
	"github.com/PetarSt98/SmartAllies/internal/model/incident"
	"github.com/PetarSt98/SmartAllies/internal/service/intermediary"
	"github.com/PetarSt98/SmartAllies/internal/service/reasoning"
	"github.com/PetarSt98/SmartAllies/internal/service/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to create chat model: %v", err)
	}

	reasoner, err := reasoning.NewService(ctx, chatModel, cfg.AI.CallTimeout)
	if err != nil {
		log.Fatalf("failed to initialize reasoning service: %v", err)
	}

	contexts := incident.NewMemoryContextStore()
	reports := report.NewService(contexts)
	hrSvc := intermediary.NewService(intermediary.HRProfile(), contexts, reports, reasoner)
	samaritanSvc := intermediary.NewService(intermediary.SamaritanProfile(), contexts, reports, reasoner)

	router := handler.NewRouter(contexts, hrSvc, samaritanSvc, reports)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("SmartAllies backend listening on %s", serverCfg.Addr)
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
