package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigManager_Get(t *testing.T) {
	mgr := NewConfigManager(Default(), "")

	tests := []struct {
		key     string
		want    string
		wantErr error
	}{
		{key: "cache.directory", want: ".view_cache"},
		{key: "audio.n_fft", want: "2048"},
		{key: "Audio.Top_DB", want: "80"},
		{key: "spectrogram.width_inches", want: "10"},
		{key: "video.backend", want: "ffmpeg"},
		{key: "email.recipients", wantErr: ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := mgr.Get(tt.key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfigManager_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewConfigManager(cfg, path)

	if err := mgr.Set("video.jpeg_quality", "85"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := mgr.Set("cache.directory", "  previews  "); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if cfg.Video.JPEGQuality != 85 {
		t.Errorf("JPEGQuality = %d, want 85", cfg.Video.JPEGQuality)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Video.JPEGQuality != 85 || loaded.Cache.Directory != "previews" {
		t.Errorf("saved config not updated: %+v", loaded)
	}
}

func TestConfigManager_SetRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewConfigManager(cfg, path)

	tests := []struct {
		key     string
		value   string
		wantErr error
	}{
		{"audio.n_fft", "lots", ErrInvalidValue},
		{"audio.top_db", "loud", ErrInvalidValue},
		{"video.jpeg_quality", "0", ErrInvalidValue},
		{"video.backend", "quicktime", ErrInvalidValue},
		{"nope.key", "1", ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := mgr.Set(tt.key, tt.value); !errors.Is(err, tt.wantErr) {
				t.Errorf("Set(%q, %q) = %v, want %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}

	if *cfg != *Default() {
		t.Errorf("config mutated by rejected sets: %+v", cfg)
	}
}

func TestConfigManager_List(t *testing.T) {
	entries := NewConfigManager(Default(), "").List()

	if len(entries) != len(Keys()) {
		t.Fatalf("expected %d entries, got %d", len(Keys()), len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Errorf("entries not sorted: %q before %q", entries[i-1].Key, entries[i].Key)
		}
	}
}
