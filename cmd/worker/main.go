package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/9778060/socialapi/internal/bootstrap"
	"github.com/9778060/socialapi/internal/logger"
)

func main() {
	logger.Init()
	lg := zlog.Logger

	consumer, err := bootstrap.NewWorker()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		lg.Error().Err(err).Msg("consumer start failed")
		os.Exit(1)
	}
	lg.Info().Msg("email worker running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := consumer.Stop(stopCtx); err != nil {
		lg.Error().Err(err).Msg("consumer stop failed")
		os.Exit(1)
	}

	lg.Info().Msg("shutdown complete")
}
