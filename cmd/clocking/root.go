// Root cobra command and the shared config/logger/store plumbing for the
// clocking CLI.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"clocking/internal/adapter/sqlite"
	"clocking/internal/config"
	"clocking/internal/ports"
)

var (
	flagFile    string
	flagVerbose bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clocking",
	Short: "Track time entries and report on them",
	Long: `clocking records time-tracking entries in a local SQLite database,
enforces a single unfinished entry at a time, and produces daily,
per-title, and idle-distribution reports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if flagFile != "" {
			cfg.File = flagFile
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "",
		"file to store the data, takes priority over "+config.FileVar)
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(unfinishedCmd)
	rootCmd.AddCommand(serverCmd)
}

// openStore opens the configured store location.
func openStore(ctx context.Context) (ports.Store, error) {
	if cfg.File == "" {
		return nil, errors.New("no storage file: set " + config.FileVar + ", the config file, or --file")
	}
	return sqlite.New(ctx, cfg.File, logger)
}
