package cmd

import (
	"fmt"
	"log/slog"

	"media-viewer/application/viewer"
	"media-viewer/domain/audio"
	"media-viewer/domain/media"
	audiodec "media-viewer/infrastructure/audio"
	"media-viewer/infrastructure/cache"
	"media-viewer/infrastructure/config"
	"media-viewer/infrastructure/ffmpeg"
	"media-viewer/infrastructure/filesystem"
	"media-viewer/infrastructure/opencv"
	"media-viewer/infrastructure/render"
)

// NewViewer builds the production viewer service from configuration
func NewViewer(cfg *config.Config, log *slog.Logger) (*viewer.Service, error) {
	return NewViewerWithRunner(cfg, log, &ffmpeg.ExecCommandRunner{})
}

// NewViewerWithRunner builds the viewer with a custom command runner for ffmpeg/ffprobe
func NewViewerWithRunner(cfg *config.Config, log *slog.Logger, runner ffmpeg.CommandRunner) (*viewer.Service, error) {
	if log == nil {
		log = slog.Default()
	}

	sampleRate := cfg.Audio.SampleRate
	if cfg.NativeSampleRate() {
		sampleRate = 0
	}

	tools := ffmpeg.NewTools(
		ffmpeg.WithFFmpegPath(cfg.FFmpeg.FFmpegPath),
		ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath),
		ffmpeg.WithCommandRunner(runner),
	)
	ffmpegDecoder := ffmpeg.NewAudioDecoder(tools, sampleRate)

	var decoder media.AudioDecoder
	switch cfg.Audio.Decoder {
	case config.DecoderFFmpeg:
		decoder = ffmpegDecoder
	case config.DecoderNative:
		decoder = audiodec.NewDecoder(sampleRate,
			audiodec.WithFallback(ffmpegDecoder),
			audiodec.WithLogger(log))
	default:
		return nil, fmt.Errorf("unknown audio decoder %q", cfg.Audio.Decoder)
	}

	var grabber media.FrameGrabber
	switch cfg.Video.Backend {
	case config.BackendFFmpeg:
		grabber = ffmpeg.NewFrameGrabber(tools)
	case config.BackendOpenCV:
		if !opencv.Available() {
			return nil, fmt.Errorf("video backend %q requires a build with -tags opencv", config.BackendOpenCV)
		}
		grabber = opencv.NewFrameGrabber()
	default:
		return nil, fmt.Errorf("unknown video backend %q", cfg.Video.Backend)
	}

	files := filesystem.NewChecker()
	renderer := render.NewSpectrogramRenderer(
		render.WithCanvasInches(cfg.Spectrogram.WidthInches, cfg.Spectrogram.HeightInches),
		render.WithDPI(cfg.Spectrogram.DPI),
		render.WithMaxColumns(cfg.Audio.MaxColumns),
	)

	return viewer.NewService(viewer.Dependencies{
		Files:        files,
		Reader:       files,
		AudioDecoder: decoder,
		Renderer:     renderer,
		Grabber:      grabber,
		Encoder:      render.NewFrameEncoder(cfg.Video.JPEGQuality, cfg.Video.MaxDimension),
		Store:        cache.NewStore(cfg.Cache.Directory, log),
	},
		viewer.WithSTFT(audio.STFTConfig{NFFT: cfg.Audio.NFFT, HopLength: cfg.Audio.HopLength}),
		viewer.WithTopDB(cfg.Audio.TopDB),
		viewer.WithLogger(log),
	), nil
}
