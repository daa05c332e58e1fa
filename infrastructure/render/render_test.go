package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"media-viewer/domain/audio"
)

func toneSpectrogram(t *testing.T, seconds float64) *audio.Spectrogram {
	t.Helper()
	n := int(seconds * audio.DefaultSampleRate)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/audio.DefaultSampleRate)
	}
	spec, err := audio.Compute(&audio.Waveform{Samples: samples, SampleRate: audio.DefaultSampleRate}, audio.DefaultSTFTConfig())
	if err != nil {
		t.Fatal(err)
	}
	return spec.ToDecibels(audio.DefaultAmin, audio.DefaultTopDB)
}

func TestSpectrogramRenderer_DefaultCanvas(t *testing.T) {
	r := NewSpectrogramRenderer()
	w, h := r.PixelSize()
	if w != 960 || h != 384 {
		t.Fatalf("PixelSize() = %dx%d, want 960x384", w, h)
	}

	data, err := r.Render(toneSpectrogram(t, 0.5), "Spectrogram of tone.wav")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != w || cfg.Height != h {
		t.Errorf("PNG size = %dx%d, want %dx%d", cfg.Width, cfg.Height, w, h)
	}
}

func TestSpectrogramRenderer_CustomCanvas(t *testing.T) {
	r := NewSpectrogramRenderer(WithCanvasInches(5, 2), WithDPI(50), WithMaxColumns(10))
	data, err := r.Render(toneSpectrogram(t, 1), "custom")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 250 || cfg.Height != 100 {
		t.Errorf("PNG size = %dx%d, want 250x100", cfg.Width, cfg.Height)
	}
}

func TestSpectrogramRenderer_SingleFrameAndSilence(t *testing.T) {
	spec, err := audio.Compute(&audio.Waveform{Samples: make([]float64, 10), SampleRate: 22050}, audio.DefaultSTFTConfig())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewSpectrogramRenderer().Render(spec.ToDecibels(audio.DefaultAmin, audio.DefaultTopDB), "silence"); err != nil {
		t.Errorf("Render() unexpected error for silent single frame: %v", err)
	}
}

func TestSpectrogramRenderer_Empty(t *testing.T) {
	if _, err := NewSpectrogramRenderer().Render(&audio.Spectrogram{}, "empty"); err == nil {
		t.Error("Render() expected error for empty spectrogram")
	}
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 3), B: 90, A: 255})
		}
	}
	return img
}

func TestFrameEncoder_EncodeJPEG(t *testing.T) {
	tests := []struct {
		name         string
		maxDimension int
		w, h         int
		wantW, wantH int
	}{
		{"no downscale", 0, 64, 48, 64, 48},
		{"within limit", 100, 64, 48, 64, 48},
		{"landscape downscale", 32, 64, 48, 32, 24},
		{"portrait downscale", 32, 48, 64, 24, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewFrameEncoder(0, tt.maxDimension).EncodeJPEG(testImage(tt.w, tt.h))
			if err != nil {
				t.Fatalf("EncodeJPEG() unexpected error: %v", err)
			}
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not a JPEG: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("JPEG size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNewFrameEncoder_Quality(t *testing.T) {
	if e := NewFrameEncoder(150, 0); e.quality != DefaultJPEGQuality {
		t.Errorf("quality = %d, want default", e.quality)
	}
	if e := NewFrameEncoder(80, 0); e.quality != 80 {
		t.Errorf("quality = %d, want 80", e.quality)
	}
}

func TestFrameEncoder_QualityChangesOutput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * y), G: uint8(x*7 + y*13), B: uint8(x ^ y), A: 255})
		}
	}

	low, err := NewFrameEncoder(10, 0).EncodeJPEG(img)
	if err != nil {
		t.Fatalf("EncodeJPEG(q=10) unexpected error: %v", err)
	}
	high, err := NewFrameEncoder(95, 0).EncodeJPEG(img)
	if err != nil {
		t.Fatalf("EncodeJPEG(q=95) unexpected error: %v", err)
	}

	for _, data := range [][]byte{low, high} {
		if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
			t.Fatalf("output is not a JPEG: %v", err)
		}
	}
	if len(low) >= len(high) {
		t.Errorf("quality 10 produced %d bytes, quality 95 produced %d; expected fewer at lower quality", len(low), len(high))
	}
}
