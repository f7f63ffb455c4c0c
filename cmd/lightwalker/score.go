package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lightwalker/dailydo/internal/observability"
	"github.com/lightwalker/dailydo/internal/quality"
	"github.com/lightwalker/dailydo/internal/schemas"
	"github.com/lightwalker/dailydo/internal/types"
)

func newScoreCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score <items.json>",
		Short: "Score a JSON array of daily-do items with the quality rubric",
		Long:  "Validates a JSON array of daily-do items against the item schema, prints the rubric report of every item and fails when the batch would be rejected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read items file %s: %w", args[0], err)
			}
			if err := schemas.Validate(schemas.DailyDoItems, data); err != nil {
				return err
			}

			var items []types.DailyDoItem
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("failed to unmarshal items JSON: %w", err)
			}

			printer := observability.NewPrinter(cmd.OutOrStdout())
			for i, item := range items {
				printer.PrintQualityReport(i, item, quality.Score(item))
			}

			if _, err := quality.CheckBatch(items); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "batch accepted: %d item(s)\n", len(items))
			return err
		},
	}
}
