package cmd

import (
	"fmt"
	"os"

	"media-viewer/infrastructure/config"
	"media-viewer/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	cfg       *config.Config
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:   "media-viewer",
	Short: "Turn images, audio and video into a single viewable image",
	Long: `media-viewer converts a media file into one image a multimodal agent can look at:

  - Images are returned as-is
  - Audio files become a spectrogram (PNG)
  - Videos yield their middle frame (JPEG)

Derived images are written to the cache directory (default ./.view_cache).

Example:
  media-viewer view recording.wav
  media-viewer serve`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing file yields defaults; a malformed one is reported by commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
	if cfgErr != nil {
		cfg = config.Default()
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	logging.Init(level, format, os.Stderr)
}

// GetConfig returns the loaded configuration, or an error if the config file could not be parsed
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}
