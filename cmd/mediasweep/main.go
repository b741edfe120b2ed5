package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"socialmedia-api/config"
	"socialmedia-api/internal"
	"socialmedia-api/internal/application/services"
	"socialmedia-api/internal/infrastructure/db/postgres"
	"socialmedia-api/internal/infrastructure/db/postgres/media"
	"socialmedia-api/internal/infrastructure/metrics"
)

type options struct {
	orphans bool
	batch   int
	at      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "mediasweep",
		Short:        "Delete expired unclaimed uploads once and exit",
		Long:         "mediasweep drains the media garbage collector once outside the API process.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.orphans, "orphans", false, "also delete claimed media that nothing references")
	cmd.Flags().IntVar(&opts.batch, "batch", 0, "records per page, overrides MEDIA_SWEEP_BATCH")
	cmd.Flags().StringVar(&opts.at, "at", "", "RFC 3339 time to sweep as of, defaults to now")

	return cmd
}

func run(ctx context.Context, opts options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.batch > 0 {
		cfg.Media.SweepBatch = opts.batch
	}

	now := time.Now()
	if opts.at != "" {
		if now, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	dsn, err := cfg.DBDSN()
	if err != nil {
		return err
	}
	pool, err := postgres.New(ctx, logger, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	blobs, err := internal.NewBlobStore(ctx, logger, cfg)
	if err != nil {
		return err
	}

	sweeper := services.NewMediaSweeper(
		media.NewRepository(pool), blobs, metrics.NewUnregisteredCounter(), logger, cfg.Media,
	)

	expired, err := sweeper.SweepExpired(ctx, now)
	if err != nil {
		return err
	}
	fields := []zap.Field{zap.Int("expired", expired), zap.Time("as_of", now)}

	if opts.orphans {
		orphans, err := sweeper.SweepOrphans(ctx, now)
		if err != nil {
			return err
		}
		fields = append(fields, zap.Int("orphans", orphans))
	}

	logger.Info("media sweep finished", fields...)

	return nil
}
