package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigManager reads and updates config entries addressed by dotted keys such as "audio.n_fft"
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Entry is a single key/value pair of the configuration
type Entry struct {
	Key   string
	Value string
}

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(ptr func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func intField(ptr func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func floatField(ptr func(c *Config) *float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*ptr(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
			}
			*ptr(c) = f
			return nil
		},
	}
}

var fields = map[string]field{
	"cache.directory":           stringField(func(c *Config) *string { return &c.Cache.Directory }),
	"audio.decoder":             stringField(func(c *Config) *string { return &c.Audio.Decoder }),
	"audio.sample_rate":         intField(func(c *Config) *int { return &c.Audio.SampleRate }),
	"audio.n_fft":               intField(func(c *Config) *int { return &c.Audio.NFFT }),
	"audio.hop_length":          intField(func(c *Config) *int { return &c.Audio.HopLength }),
	"audio.top_db":              floatField(func(c *Config) *float64 { return &c.Audio.TopDB }),
	"audio.max_columns":         intField(func(c *Config) *int { return &c.Audio.MaxColumns }),
	"spectrogram.width_inches":  floatField(func(c *Config) *float64 { return &c.Spectrogram.WidthInches }),
	"spectrogram.height_inches": floatField(func(c *Config) *float64 { return &c.Spectrogram.HeightInches }),
	"spectrogram.dpi":           intField(func(c *Config) *int { return &c.Spectrogram.DPI }),
	"video.backend":             stringField(func(c *Config) *string { return &c.Video.Backend }),
	"video.jpeg_quality":        intField(func(c *Config) *int { return &c.Video.JPEGQuality }),
	"video.max_dimension":       intField(func(c *Config) *int { return &c.Video.MaxDimension }),
	"ffmpeg.ffmpeg_path":        stringField(func(c *Config) *string { return &c.FFmpeg.FFmpegPath }),
	"ffmpeg.ffprobe_path":       stringField(func(c *Config) *string { return &c.FFmpeg.FFprobePath }),
	"logging.level":             stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":            stringField(func(c *Config) *string { return &c.Logging.Format }),
}

// Keys returns every supported key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns every entry of the current configuration, sorted by key
func (m *ConfigManager) List() []Entry {
	keys := Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: fields[k].get(m.config)})
	}
	return entries
}

// Get returns the value of key (case-insensitive)
func (m *ConfigManager) Get(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(m.config), nil
}

// Set updates key, validates the result, and saves the config file.
// The in-memory config is left unchanged when validation fails.
func (m *ConfigManager) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	updated := *m.config
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}

func lookup(key string) (field, error) {
	f, ok := fields[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return field{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f, nil
}
