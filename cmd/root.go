// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"blinkx/internal/config"
	"blinkx/internal/extract"
	"blinkx/internal/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagAPIHost  string
	flagTimezone string
	flagTimeout  string
	flagPlayer   string
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// log is the CLI logger. Extractors log through it too.
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "blinkx [url]",
	Short: "Extract video metadata and formats from blinkx",
	Long: `blinkx resolves blinkx.com video URLs (or blinkx:<id>) into their title,
uploader, thumbnails and playable formats, and can download a format with ffmpeg.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return infoRun(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIHost, "api-host", "", "API domain (default: blinkx.com)")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "timezone", "", "Timezone for upload dates (default: UTC)")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", "", "HTTP timeout, e.g. 30s")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagAPIHost != "" {
		cfg.APIHost = flagAPIHost
	}
	if flagTimezone != "" {
		cfg.Timezone = flagTimezone
	}
	if flagTimeout != "" {
		cfg.Timeout = flagTimeout
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !cfg.Debug})
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return nil
}

// newRegistry builds the extractor registry from the loaded config.
func newRegistry() (*extract.Registry, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	client := httputil.NewClient(timeout, cfg.UserAgent)
	return extract.DefaultRegistry(client, extract.BlinkxOptions{
		Host:     cfg.APIHost,
		Location: loc,
		Logger:   log,
	}), nil
}
