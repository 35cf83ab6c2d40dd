package main

import (
	"context"
	"log"
	"net/http"

	"github.com/arjunkx/live-auction-backend/internal/config"
	"github.com/arjunkx/live-auction-backend/internal/httpapi"
	"github.com/arjunkx/live-auction-backend/internal/hub"
	"github.com/arjunkx/live-auction-backend/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Every sale depends on the store; refuse to start without it.
	st, err := store.Open(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("store unreachable", zap.Error(err))
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, st, logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, st, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
