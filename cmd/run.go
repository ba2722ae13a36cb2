package cmd

import (
	"context"

	"github.com/BatikanHyt/ordertrack/pkg/config"
	"github.com/BatikanHyt/ordertrack/pkg/ledger"
	"github.com/BatikanHyt/ordertrack/pkg/logger"
	"github.com/BatikanHyt/ordertrack/pkg/order"
	"github.com/BatikanHyt/ordertrack/pkg/protocols"
	"go.uber.org/zap"
)

// runBatch sends every configured order and waits for all of them. Rejected
// orders are logged, not returned; only setup failures are errors.
func runBatch(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Close()

	l, err := ledger.New(cfg.Ledger, log.Logger)
	if err != nil {
		log.Error("unable to initialize ledger", zap.String("path", cfg.Ledger.Path), zap.Error(err))
		return err
	}

	client, err := protocols.NewPostClient(cfg.Target)
	if err != nil {
		return err
	}

	runner := &protocols.Runner{
		Concurrency: cfg.Concurrency,
		ScratchDir:  cfg.Ledger.ScratchDir,
		Client:      client,
		Ledger:      l,
		Logger:      log.Logger,
	}
	log.Info("dispatching orders",
		zap.String("url", cfg.Target.URL),
		zap.Int("orders", len(cfg.Orders)),
		zap.Int("concurrency", cfg.Concurrency),
	)
	if _, err := runner.Run(ctx, order.FromMap(cfg.Orders)); err != nil {
		return err
	}

	if err := l.Close(); err != nil {
		log.Warn("scratch files not cleaned up", zap.Error(err))
	}
	return nil
}
