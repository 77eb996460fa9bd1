// Package cmd holds the field-access command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/field-access-analysis/internal/storage"
	"github.com/field-access-analysis/pkg/config"
	apperrors "github.com/field-access-analysis/pkg/errors"
	"github.com/field-access-analysis/pkg/telemetry"
	"github.com/field-access-analysis/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Set up by PersistentPreRunE for every command.
	logger   utils.Logger = &utils.NullLogger{}
	cfg      *config.Config
	store    storage.Storage
	shutdown telemetry.ShutdownFunc
)

// flagKeys maps command line flags onto the config keys they override.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"buckets":    "hotness.buckets",
	"min":        "flamegraph.min",
	"max":        "flamegraph.max",
	"columns":    "chart.columns",
	"dpi":        "chart.dpi",
	"labels":     "chart.labels",
	"width":      "chart.width_cm",
	"height":     "chart.height_cm",
	"storage":    "storage.type",
	"local-path": "storage.local_path",
	"telemetry":  "telemetry.enabled",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "field-access",
	Short: "Visualize per-field memory access profiles",
	Long: `field-access turns memory-access captures into visualizations.

A capture lists, for each allocation site, the type tree of the allocated
object with per-field access counts. The tool renders captures as folded
flame graph stacks weighted by hotness, as bar charts, or as pprof
profiles, and post-processes the profiler's auxiliary dumps.

Inputs and outputs are read from and written to the configured storage,
the local filesystem by default. Compressed inputs (.gz, .zst) are
detected automatically, and outputs ending in .gz or .zst are compressed.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if serr := shutdown(ctx); serr != nil {
			logger.Warn("Failed to flush telemetry: %v", serr)
		}
		cancel()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for errors the caller can fix by changing the command
// line or config file, and 1 for everything else.
func exitCode(err error) int {
	if apperrors.IsConfigError(err) || apperrors.IsInvalidInput(err) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("storage", "local", "Storage backend: local or cos")
	rootCmd.PersistentFlags().String("local-path", "", "Base directory for local storage")
	rootCmd.PersistentFlags().Bool("telemetry", false, "Export OpenTelemetry spans")

	binName := BinName()
	rootCmd.Example = `  # Flame graph of the 20 hottest entries
  ` + binName + ` flamegraph capture.yaml --max 20 | flamegraph.pl > access.svg

  # Bar charts, one tile per entry
  ` + binName + ` chart capture.yaml -o access.png

  # Read from and write to a COS bucket
  ` + binName + ` flamegraph runs/42/capture.yaml.zst -o runs/42/folded.txt -c cos.yaml`
}

// setup loads configuration and builds the logger, storage and
// telemetry shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	loaded, err := config.LoadWith(v, configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level := utils.ParseLogLevel(cfg.Log.Level)
	if verbose {
		level = utils.LevelDebug
	}
	logger = utils.NewDefaultLogger(level, cmd.ErrOrStderr())

	store, err = storage.New(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}

	tcfg := telemetry.LoadFromEnv().Override(cfg.Telemetry.Enabled, cfg.Telemetry.ServiceName)
	shutdown, err = telemetry.Init(cmd.Context(), tcfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger.Debug("Storage: %s, hotness buckets: %d", cfg.Storage.Type, cfg.Hotness.Buckets)
	return nil
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
