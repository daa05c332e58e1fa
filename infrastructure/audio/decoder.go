package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	domainaudio "media-viewer/domain/audio"
	"media-viewer/domain/media"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned when no native decoder handles an extension or encoding
var ErrUnsupportedFormat = errors.New("no native decoder for format")

// WAV format tags
const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// Decoder implements media.AudioDecoder. WAV, MP3 and FLAC are decoded in
// process; every other extension is handed to the fallback decoder.
type Decoder struct {
	sampleRate int
	fallback   media.AudioDecoder
	logger     *slog.Logger
}

// DecoderOption is a functional option for configuring Decoder
type DecoderOption func(*Decoder)

// WithFallback sets the decoder used for formats without a native decoder (m4a)
func WithFallback(dec media.AudioDecoder) DecoderOption {
	return func(d *Decoder) {
		d.fallback = dec
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		d.logger = log
	}
}

// NewDecoder creates a decoder that resamples to sampleRate (0 keeps the native rate)
func NewDecoder(sampleRate int, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		sampleRate: sampleRate,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Decode implements media.AudioDecoder
func (d *Decoder) Decode(ctx context.Context, path string) (*domainaudio.Waveform, error) {
	ext := media.Extension(path)

	var decode func(io.ReadSeeker) (*domainaudio.Waveform, error)
	switch ext {
	case ".wav":
		decode = decodeWAV
	case ".mp3":
		decode = decodeMP3
	case ".flac":
		decode = decodeFLAC
	default:
		if d.fallback == nil {
			return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
		}
		d.logger.Debug("using fallback audio decoder", slog.String("path", path), slog.String("ext", ext))
		return d.fallback.Decode(ctx, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	w, err := decode(f)
	if errors.Is(err, ErrUnsupportedFormat) && d.fallback != nil {
		d.logger.Debug("using fallback audio decoder", slog.String("path", path), slog.Any("reason", err))
		return d.fallback.Decode(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	d.logger.Debug("decoded audio",
		slog.String("path", path),
		slog.Int("samples", len(w.Samples)),
		slog.Int("sample_rate", w.SampleRate),
	)

	return w.Resample(d.sampleRate), nil
}

func decodeWAV(r io.ReadSeeker) (*domainaudio.Waveform, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	switch {
	case dec.WavAudioFormat == wavFormatFloat && dec.BitDepth != 32:
		return nil, fmt.Errorf("%w: %d-bit float WAV", ErrUnsupportedFormat, dec.BitDepth)
	case dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatFloat && dec.WavAudioFormat != wavFormatExtensible:
		return nil, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode failed: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("wav decode failed: missing format")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	interleaved := make([]float64, len(buf.Data))
	switch {
	case dec.WavAudioFormat == wavFormatFloat:
		for i, v := range buf.Data {
			interleaved[i] = float64(math.Float32frombits(uint32(v)))
		}
	case bitDepth == 8:
		// 8-bit PCM is unsigned with silence at 128
		for i, v := range buf.Data {
			interleaved[i] = float64(v-128) / 128
		}
	default:
		scale := fullScale(bitDepth)
		for i, v := range buf.Data {
			interleaved[i] = float64(v) / scale
		}
	}

	mono, err := domainaudio.Downmix(interleaved, buf.Format.NumChannels)
	if err != nil {
		return nil, fmt.Errorf("wav decode failed: %w", err)
	}

	return &domainaudio.Waveform{Samples: mono, SampleRate: buf.Format.SampleRate}, nil
}

func decodeMP3(r io.ReadSeeker) (*domainaudio.Waveform, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode failed: %w", err)
	}

	// go-mp3 always produces 16-bit little-endian stereo
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode failed: %w", err)
	}

	interleaved := make([]float64, len(pcm)/2)
	for i := range interleaved {
		v := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		interleaved[i] = float64(v) / 32768
	}

	mono, err := domainaudio.Downmix(interleaved, 2)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode failed: %w", err)
	}

	return &domainaudio.Waveform{Samples: mono, SampleRate: dec.SampleRate()}, nil
}

func decodeFLAC(r io.ReadSeeker) (*domainaudio.Waveform, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac decode failed: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	if channels == 0 {
		return nil, fmt.Errorf("flac decode failed: no channels")
	}
	scale := fullScale(int(stream.Info.BitsPerSample))

	mono := make([]float64, 0, stream.Info.NSamples)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac decode failed: %w", err)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var sum float64
			for _, sub := range frame.Subframes {
				sum += float64(sub.Samples[i])
			}
			mono = append(mono, sum/float64(channels)/scale)
		}
	}

	return &domainaudio.Waveform{Samples: mono, SampleRate: int(stream.Info.SampleRate)}, nil
}

// fullScale returns the magnitude of the most negative sample for a bit depth
func fullScale(bitDepth int) float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return float64(int64(1) << (bitDepth - 1))
}

// Ensure Decoder implements media.AudioDecoder
var _ media.AudioDecoder = (*Decoder)(nil)
