package ffmpeg

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"media-viewer/domain/audio"
	"media-viewer/domain/media"
)

// AudioDecoder implements media.AudioDecoder by asking ffmpeg for mono
// 32-bit float PCM on stdout. It handles every container ffmpeg can read.
type AudioDecoder struct {
	tools      *Tools
	sampleRate int
}

// NewAudioDecoder creates a decoder producing waveforms at sampleRate.
// A sampleRate of 0 uses audio.DefaultSampleRate.
func NewAudioDecoder(tools *Tools, sampleRate int) *AudioDecoder {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	return &AudioDecoder{tools: tools, sampleRate: sampleRate}
}

// Decode implements media.AudioDecoder
func (d *AudioDecoder) Decode(ctx context.Context, path string) (*audio.Waveform, error) {
	args := []string{
		"-v", "error",
		"-i", path,
		"-vn",      // No video
		"-ac", "1", // Mono
		"-ar", strconv.Itoa(d.sampleRate),
		"-f", "f32le",
		"-",
	}

	out, err := d.tools.Runner.Output(ctx, d.tools.FFmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg audio decode failed: %w", err)
	}

	return &audio.Waveform{
		Samples:    decodeFloat32LE(out),
		SampleRate: d.sampleRate,
	}, nil
}

func decodeFloat32LE(raw []byte) []float64 {
	samples := make([]float64, len(raw)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		samples[i] = float64(math.Float32frombits(bits))
	}
	return samples
}

// Ensure AudioDecoder implements media.AudioDecoder
var _ media.AudioDecoder = (*AudioDecoder)(nil)
