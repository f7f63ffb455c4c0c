package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/observability"
	"github.com/lightwalker/dailydo/internal/types"
)

func newShowCommand(a *app) *cobra.Command {
	var (
		asJSON bool
		dbURL  string
	)

	cmd := &cobra.Command{
		Use:   "show <role-model-id>",
		Short: "Print the stored enhancement of a role model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db-url") {
				a.cfg.Database.URL = dbURL
			}

			ctx := cmd.Context()
			logger := a.logger.Named("show")
			store, err := openStore(ctx, a.cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn("failed to close store", zap.Error(err))
				}
			}()

			payload, err := store.GetEnhancement(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if payload == nil {
				_, err = fmt.Fprintf(out, "Role model %s has not been enhanced yet\n", args[0])
				return err
			}

			if asJSON {
				var buf bytes.Buffer
				if err := json.Indent(&buf, payload, "", "  "); err != nil {
					return fmt.Errorf("stored enhancement is not valid JSON: %w", err)
				}
				buf.WriteByte('\n')
				_, err = buf.WriteTo(out)
				return err
			}

			var record types.RoleModelEnhancement
			if err := json.Unmarshal(payload, &record); err != nil {
				return fmt.Errorf("failed to decode stored enhancement: %w", err)
			}

			printer := observability.NewPrinter(out)
			for _, attr := range record.Attributes {
				title := strings.ToUpper(strings.ReplaceAll(attr.AttributeID, "-", " "))
				printer.PrintDailyDoItems(title, attr.DailyDoItems, nil)
			}
			printer.PrintSummaryBreakdown(record.Summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw stored JSON")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	return cmd
}
