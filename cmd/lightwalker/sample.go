package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/aggregate"
	"github.com/lightwalker/dailydo/internal/batch"
	"github.com/lightwalker/dailydo/internal/observability"
	"github.com/lightwalker/dailydo/internal/samples"
	"github.com/lightwalker/dailydo/internal/types"
)

func newSampleCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Enhance a fixed sample set and print the results",
		Long:  "Runs the enhancer over the built-in sample requests (or a YAML file of requests) and prints the generated items with their quality reports. Nothing is written to the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadSampleSet(file)
			if err != nil {
				return err
			}
			return runSample(cmd.Context(), cmd.OutOrStdout(), a, set)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file of sample requests (default: built-in set)")
	return cmd
}

func loadSampleSet(path string) (*samples.SampleSet, error) {
	if path == "" {
		return samples.Default()
	}
	return samples.LoadSampleSet(path)
}

func runSample(ctx context.Context, out io.Writer, a *app, set *samples.SampleSet) error {
	logger := a.logger.Named("sample")
	enhancer, client, err := enhancerFrom(a.cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	pacer := batch.NewPacer(a.cfg.Enhancement.RateLimitDelay)
	printer := observability.NewPrinter(out)

	var enhanced []types.AttributeEnhancement
	failures := 0
	for _, req := range set.Requests {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}

		result := enhancer.Enhance(ctx, req)
		pacer.Done()
		title := strings.ToUpper(req.RoleModelName + " · " + req.AttributeName)
		if !result.Success {
			failures++
			logger.Warn("sample failed", zap.String("attribute", req.AttributeName), zap.String("error", result.Error))
			printer.PrintAttributeResult(req.AttributeName, false, 0, result.Metadata.RetryCount, result.Error)
			continue
		}

		printer.PrintDailyDoItems(title, result.DailyDoItems, result.Reports)
		attr, err := aggregate.BuildAttributeEnhancement(req.AttributeName, req.AbstractMethod, result.DailyDoItems, time.Now())
		if err != nil {
			return err
		}
		enhanced = append(enhanced, attr)
	}

	if len(enhanced) > 0 {
		printer.PrintSummaryBreakdown(aggregate.BuildSummary(enhanced))
	}
	if _, err := fmt.Fprintf(out, "%d of %d samples enhanced\n", len(enhanced), len(set.Requests)); err != nil {
		return err
	}
	if failures == len(set.Requests) {
		return fmt.Errorf("all %d samples failed", failures)
	}
	return ctx.Err()
}
