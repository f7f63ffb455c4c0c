package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lightwalker/dailydo/internal/batch"
	"github.com/lightwalker/dailydo/internal/observability"
	"github.com/lightwalker/dailydo/internal/types"
)

func newEnhanceCommand(a *app) *cobra.Command {
	var (
		limit      int
		roleModels []string
		dryRun     bool
		rateLimit  time.Duration
		dbURL      string
	)

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Enhance every eligible role model once",
		Long:  "Runs the batch enhancement to completion: each active, not yet enhanced role model has its attributes turned into 2-3 daily-do items, and the aggregated record is written back to the store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Only override if the flag was explicitly set
			if cmd.Flags().Changed("limit") {
				a.cfg.Enhancement.Limit = limit
			}
			if cmd.Flags().Changed("dry-run") {
				a.cfg.Enhancement.DryRun = dryRun
			}
			if cmd.Flags().Changed("rate-limit") {
				a.cfg.Enhancement.RateLimitDelay = rateLimit
			}
			if cmd.Flags().Changed("db-url") {
				a.cfg.Database.URL = dbURL
			}
			return runEnhance(cmd.Context(), cmd.OutOrStdout(), a, roleModels)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Process at most this many role models (0 = all)")
	cmd.Flags().StringSliceVar(&roleModels, "role-model", nil, "Only process the role model with this ID (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Enhance but do not write results back")
	cmd.Flags().DurationVar(&rateLimit, "rate-limit", batch.DefaultRateLimitDelay, "Minimum delay between LLM calls")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL: postgres://..., sqlite://path or file:path (defaults to DATABASE_URL)")
	return cmd
}

func runEnhance(ctx context.Context, out io.Writer, a *app, roleModels []string) error {
	cfg := a.cfg
	logger := a.logger.Named("enhance")

	enhancer, client, err := enhancerFrom(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	filter := types.DefaultCandidateFilter()
	filter.Limit = cfg.Enhancement.Limit
	filter.IDs = roleModels

	printer := observability.NewPrinter(out)
	runner := batch.NewRunner(store, enhancer, logger, batch.Options{
		Filter:         filter,
		RateLimitDelay: cfg.Enhancement.RateLimitDelay,
		DryRun:         cfg.Enhancement.DryRun,
		UserContext:    userContextFrom(cfg.Enhancement),
	}).WithProgress(printer)

	// The watcher closes the store once the run ends or a signal arrives
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	var stats *types.RunStatistics
	g.Go(func() error {
		defer cancel()
		var runErr error
		stats, runErr = runner.Run(gCtx)
		return runErr
	})
	g.Go(func() error {
		<-gCtx.Done()
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
		return nil
	})

	err = g.Wait()
	printer.PrintRunStatistics(stats)
	return err
}
