package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/dinostories/internal/server"
	"github.com/dmitrijs2005/dinostories/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("initializing server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Fatal("running server", zap.Error(err))
	}
}
