package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/gosuhiman/get-lost/internal/config"
	"github.com/gosuhiman/get-lost/internal/logger"
	"github.com/gosuhiman/get-lost/internal/server"
)

func main() {
	configFile := flag.String("config", "data/getlost.yaml", "Path to server config YAML file")
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	addr := flag.String("addr", "", "Listen address (overrides config and GETLOST_ADDR)")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	if err := logger.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	mainCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg)
	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	logger.Always("Get Lost server listening",
		"address", cfg.Server.Address,
		"default_size", cfg.Maze.DefaultSize,
		"max_portal_pairs", cfg.Maze.MaxPortalPairs)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server", "timeout", cfg.Server.ShutdownTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		srv.Shutdown()
		return httpServer.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped", "error", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Always("Server stopped")
}
