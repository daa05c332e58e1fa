package cmd

import (
	"fmt"
	"os"
	"strconv"

	"media-viewer/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing the cache directory, the audio
decoder and video backend, output quality and the ffmpeg locations.
Press enter to accept the default shown for each question.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to media-viewer setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptCache(prompter, cfg); err != nil {
		return err
	}
	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}
	if err := promptVideo(prompter, cfg); err != nil {
		return err
	}
	if err := promptFFmpeg(prompter, cfg); err != nil {
		return err
	}
	if err := promptLogging(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptCache(prompter Prompter, cfg *config.Config) error {
	dir, err := prompter.Input("Where should derived images be written?", cfg.Cache.Directory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if dir != "" {
		cfg.Cache.Directory = dir
	}
	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	decoder, err := prompter.Select("Audio decoder?", []string{config.DecoderNative, config.DecoderFFmpeg}, cfg.Audio.Decoder)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Audio.Decoder = decoder

	rate, err := promptInt(prompter, "Spectrogram sample rate in Hz (-1 keeps the file's rate)?", cfg.Audio.SampleRate)
	if err != nil {
		return err
	}
	if rate == 0 {
		return fmt.Errorf("sample rate must not be zero")
	}
	cfg.Audio.SampleRate = rate
	return nil
}

func promptVideo(prompter Prompter, cfg *config.Config) error {
	backend, err := prompter.Select("Video frame backend?", []string{config.BackendFFmpeg, config.BackendOpenCV}, cfg.Video.Backend)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Video.Backend = backend

	quality, err := promptInt(prompter, "JPEG quality for extracted frames (1-100)?", cfg.Video.JPEGQuality)
	if err != nil {
		return err
	}
	cfg.Video.JPEGQuality = quality

	maxDim, err := promptInt(prompter, "Maximum frame width/height in pixels (0 keeps the original size)?", cfg.Video.MaxDimension)
	if err != nil {
		return err
	}
	cfg.Video.MaxDimension = maxDim
	return nil
}

func promptFFmpeg(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.FFmpeg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.FFmpeg.FFmpegPath = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe?", cfg.FFmpeg.FFprobePath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffprobePath != "" {
		cfg.FFmpeg.FFprobePath = ffprobePath
	}
	return nil
}

func promptLogging(prompter Prompter, cfg *config.Config) error {
	level, err := prompter.Select("Log level?", []string{"debug", "info", "warn", "error"}, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Logging.Level = level
	return nil
}

func promptInt(prompter Prompter, message string, defaultValue int) (int, error) {
	raw, err := prompter.Input(message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled")
	}
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return n, nil
}
