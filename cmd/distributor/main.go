package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vault-staking-go/internal/common"
	"vault-staking-go/internal/config"
	"vault-staking-go/internal/distributor"
)

func main() {
	once := flag.Bool("once", false, "Run a single distribution pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting reward distributor")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	dist := distributor.NewDistributor(distributor.DistributorConfig{
		LedgerService: services.LedgerService,
		Interval:      cfg.Distributor.Interval,
		Workers:       cfg.Distributor.Workers,
	})

	if *once {
		result, err := dist.RunOnce(ctx)
		if err != nil {
			zap.L().Fatal("Distribution pass failed", zap.Error(err))
		}
		zap.L().Info("Distribution pass completed",
			zap.Int("positions_seen", result.PositionsSeen),
			zap.Int("positions_updated", result.PositionsUpdated),
			zap.String("rewards_accrued", result.RewardsAccrued.String()))
		return
	}

	dist.Start(ctx)
	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping distributor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		dist.Stop()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Distributor stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
