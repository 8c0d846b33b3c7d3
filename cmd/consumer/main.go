// Command consumer reads reservation.created events from RabbitMQ and
// appends one line per reservation to the reservation log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/shop-reservation/internal/config"
	"github.com/iliyamo/shop-reservation/internal/logger"
	"github.com/iliyamo/shop-reservation/internal/queue"
)

func main() {
	_ = godotenv.Load()
	log := logger.SetupDefault(os.Stdout, os.Getenv("LOG_LEVEL"))

	qcfg := config.LoadQueueConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("consumer starting", "queue", qcfg.Queue, "log_path", qcfg.LogPath)
	c := queue.NewConsumer(qcfg.URL, qcfg.Queue, qcfg.LogPath, log)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
