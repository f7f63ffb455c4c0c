package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/samples"
)

func newSeedCommand(a *app) *cobra.Command {
	var (
		file  string
		dbURL string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert or update role models from a YAML file",
		Long:  "Creates the role model table if needed, then upserts every role model of the seed file. Existing enhancements are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("db-url") {
				a.cfg.Database.URL = dbURL
			}

			seed, err := samples.LoadSeedFile(file)
			if err != nil {
				return err
			}
			records, err := seed.Records()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := a.logger.Named("seed")
			store, err := openStore(ctx, a.cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn("failed to close store", zap.Error(err))
				}
			}()

			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			for _, record := range records {
				if err := store.UpsertRoleModel(ctx, record); err != nil {
					return fmt.Errorf("failed to seed role model %s: %w", record.ID, err)
				}
			}

			logger.Info("seeded role models", zap.Int("count", len(records)))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d role model(s)\n", len(records))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the role model seed YAML file (required)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	return cmd
}
