package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cache.Directory != ".view_cache" {
		t.Errorf("Cache.Directory = %q, want .view_cache", cfg.Cache.Directory)
	}
	if cfg.Audio.SampleRate != 22050 || cfg.Audio.NFFT != 2048 || cfg.Audio.HopLength != 512 {
		t.Errorf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if cfg.Audio.TopDB != 80 || cfg.Audio.MaxColumns != 600 {
		t.Errorf("unexpected audio scaling defaults: %+v", cfg.Audio)
	}
	if cfg.Spectrogram.WidthInches != 10 || cfg.Spectrogram.HeightInches != 4 || cfg.Spectrogram.DPI != 96 {
		t.Errorf("unexpected spectrogram defaults: %+v", cfg.Spectrogram)
	}
	if cfg.Video.Backend != BackendFFmpeg || cfg.Video.JPEGQuality != 95 || cfg.Video.MaxDimension != 0 {
		t.Errorf("unexpected video defaults: %+v", cfg.Video)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_AppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `cache:
  directory: /tmp/previews
video:
  jpeg_quality: 80
audio:
  sample_rate: -1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Cache.Directory != "/tmp/previews" {
		t.Errorf("Cache.Directory = %q, want /tmp/previews", cfg.Cache.Directory)
	}
	if cfg.Video.JPEGQuality != 80 {
		t.Errorf("JPEGQuality = %d, want 80", cfg.Video.JPEGQuality)
	}
	if !cfg.NativeSampleRate() {
		t.Error("negative sample_rate should keep the native rate")
	}
	if cfg.Audio.NFFT != 2048 {
		t.Errorf("NFFT = %d, want default 2048", cfg.Audio.NFFT)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("cache: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	_, err := Load(bad)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.Directory != ".view_cache" {
		t.Errorf("expected defaults, got %+v", cfg.Cache)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Audio.Decoder = DecoderFFmpeg
	cfg.Logging.Format = "json"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown decoder", func(c *Config) { c.Audio.Decoder = "sox" }, "audio.decoder"},
		{"unknown backend", func(c *Config) { c.Video.Backend = "vlc" }, "video.backend"},
		{"tiny fft", func(c *Config) { c.Audio.NFFT = 2 }, "audio.n_fft"},
		{"odd fft", func(c *Config) { c.Audio.NFFT = 3 }, "audio.n_fft"},
		{"odd large fft", func(c *Config) { c.Audio.NFFT = 1025 }, "audio.n_fft"},
		{"negative hop", func(c *Config) { c.Audio.HopLength = -5 }, "audio.hop_length"},
		{"quality too high", func(c *Config) { c.Video.JPEGQuality = 101 }, "video.jpeg_quality"},
		{"negative max dimension", func(c *Config) { c.Video.MaxDimension = -1 }, "video.max_dimension"},
		{"zero dpi", func(c *Config) { c.Spectrogram.DPI = -1 }, "spectrogram canvas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
