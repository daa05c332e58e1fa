package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Supported backend names
const (
	DecoderNative  = "native"
	DecoderFFmpeg  = "ffmpeg"
	BackendFFmpeg  = "ffmpeg"
	BackendOpenCV  = "opencv"
	DefaultPath    = "config/config.yaml"
	defaultLogFmt  = "text"
	defaultLogLvl  = "info"
	defaultFFmpeg  = "ffmpeg"
	defaultFFprobe = "ffprobe"
)

// Config represents the complete application configuration
type Config struct {
	Cache       CacheConfig       `yaml:"cache"`
	Audio       AudioConfig       `yaml:"audio"`
	Spectrogram SpectrogramConfig `yaml:"spectrogram"`
	Video       VideoConfig       `yaml:"video"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CacheConfig contains the derived-artifact directory
type CacheConfig struct {
	Directory string `yaml:"directory"`
}

// AudioConfig contains decoding and STFT settings
type AudioConfig struct {
	Decoder    string  `yaml:"decoder"`
	SampleRate int     `yaml:"sample_rate"`
	NFFT       int     `yaml:"n_fft"`
	HopLength  int     `yaml:"hop_length"`
	TopDB      float64 `yaml:"top_db"`
	MaxColumns int     `yaml:"max_columns"`
}

// SpectrogramConfig contains the rendered canvas size
type SpectrogramConfig struct {
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
	DPI          int     `yaml:"dpi"`
}

// VideoConfig contains frame extraction settings
type VideoConfig struct {
	Backend      string `yaml:"backend"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
	MaxDimension int    `yaml:"max_dimension"`
}

// FFmpegConfig contains external tool locations
type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// LoggingConfig contains log level and format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration populated with every default value
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// A negative audio.sample_rate is kept and means "native rate".
func (c *Config) ApplyDefaults() {
	if c.Cache.Directory == "" {
		c.Cache.Directory = ".view_cache"
	}
	if c.Audio.Decoder == "" {
		c.Audio.Decoder = DecoderNative
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 22050
	}
	if c.Audio.NFFT == 0 {
		c.Audio.NFFT = 2048
	}
	if c.Audio.HopLength == 0 {
		c.Audio.HopLength = 512
	}
	if c.Audio.TopDB == 0 {
		c.Audio.TopDB = 80
	}
	if c.Audio.MaxColumns == 0 {
		c.Audio.MaxColumns = 600
	}
	if c.Spectrogram.WidthInches == 0 {
		c.Spectrogram.WidthInches = 10
	}
	if c.Spectrogram.HeightInches == 0 {
		c.Spectrogram.HeightInches = 4
	}
	if c.Spectrogram.DPI == 0 {
		c.Spectrogram.DPI = 96
	}
	if c.Video.Backend == "" {
		c.Video.Backend = BackendFFmpeg
	}
	if c.Video.JPEGQuality == 0 {
		c.Video.JPEGQuality = 95
	}
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = defaultFFmpeg
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = defaultFFprobe
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLvl
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFmt
	}
}

// NativeSampleRate reports whether decoded audio keeps its original rate
func (c *Config) NativeSampleRate() bool {
	return c.Audio.SampleRate < 0
}

// Validate checks enumerated values and numeric ranges
func (c *Config) Validate() error {
	var errs []error

	switch c.Audio.Decoder {
	case DecoderNative, DecoderFFmpeg:
	default:
		errs = append(errs, fmt.Errorf("audio.decoder must be %q or %q, got %q", DecoderNative, DecoderFFmpeg, c.Audio.Decoder))
	}
	switch c.Video.Backend {
	case BackendFFmpeg, BackendOpenCV:
	default:
		errs = append(errs, fmt.Errorf("video.backend must be %q or %q, got %q", BackendFFmpeg, BackendOpenCV, c.Video.Backend))
	}
	if c.Audio.NFFT < 4 || c.Audio.NFFT%2 != 0 {
		errs = append(errs, fmt.Errorf("audio.n_fft must be an even number >= 4, got %d", c.Audio.NFFT))
	}
	if c.Audio.HopLength < 1 {
		errs = append(errs, fmt.Errorf("audio.hop_length must be positive, got %d", c.Audio.HopLength))
	}
	if c.Audio.TopDB < 0 {
		errs = append(errs, fmt.Errorf("audio.top_db must not be negative, got %g", c.Audio.TopDB))
	}
	if c.Video.JPEGQuality < 1 || c.Video.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("video.jpeg_quality must be between 1 and 100, got %d", c.Video.JPEGQuality))
	}
	if c.Video.MaxDimension < 0 {
		errs = append(errs, fmt.Errorf("video.max_dimension must not be negative, got %d", c.Video.MaxDimension))
	}
	if c.Spectrogram.WidthInches <= 0 || c.Spectrogram.HeightInches <= 0 || c.Spectrogram.DPI <= 0 {
		errs = append(errs, fmt.Errorf("spectrogram canvas must be positive"))
	}

	return errors.Join(errs...)
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// LoadOrDefault reads the configuration at path, falling back to defaults when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
