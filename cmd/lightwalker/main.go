// Package main implements the lightwalker CLI: batch enhancement of role model
// attributes into daily-do items, plus manual review tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lightwalker/dailydo/internal/config"
	"github.com/lightwalker/dailydo/internal/observability"
)

// app carries what every subcommand needs once the root has loaded it
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

// newRootCommand builds a fresh command tree so flag values never leak
// between executions
func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "lightwalker",
		Short:         "Lightwalker daily-do enhancement pipeline",
		Long:          "Turns the abstract methods of role model attributes into concrete, gamified daily-do items using an LLM and a deterministic quality rubric.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.New(), a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			a.logger = observability.GetLogger()
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			observability.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML or JSON config file (default: ./config.yaml if present)")

	root.AddCommand(
		newEnhanceCommand(a),
		newSampleCommand(a),
		newScoreCommand(a),
		newSeedCommand(a),
		newShowCommand(a),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
