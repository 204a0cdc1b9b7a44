// ABOUTME: Root Cobra command and global flags for the potd-wallpaper CLI.
// ABOUTME: Sets up lifecycle hooks for config loading and logging.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/menhera-org/potd-wallpaper/internal/config"
)

var globalConfig *config.Config
var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

var (
	verbose        bool
	flagFeedURL    string
	flagCacheDir   string
	flagTimeout    time.Duration
	flagMaxRetries int
)

var rootCmd = &cobra.Command{
	Use:   "potd-wallpaper",
	Short: "Picture of the Day wallpaper changer",
	Long: `Fetches the daily featured image from a picture-of-the-day feed and
applies it as the desktop background.

Running without a subcommand performs one fetch→apply pass; the install
command registers a scheduler unit that does this periodically.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cfg)
		globalConfig = cfg
		return nil
	},
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagFeedURL, "feed-url", "", "Feed endpoint override")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "Cache directory override")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Network timeout override")
	rootCmd.PersistentFlags().IntVar(&flagMaxRetries, "max-retries", 0, "Retry attempt override")
}

func applyFlagOverrides(cfg *config.Config) {
	if flagFeedURL != "" {
		cfg.Feed.URL = flagFeedURL
	}
	if flagCacheDir != "" {
		cfg.Cache.Directory = flagCacheDir
	}
	if flagTimeout > 0 {
		cfg.Feed.Timeout = config.Duration(flagTimeout)
	}
	if flagMaxRetries > 0 {
		cfg.Feed.MaxRetries = flagMaxRetries
	}
}
