package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"media-viewer/domain/audio"
	"media-viewer/domain/media"
)

// Dependencies holds the ports the viewer dispatches to
type Dependencies struct {
	Files        media.FileChecker
	Reader       media.SourceReader
	AudioDecoder media.AudioDecoder
	Renderer     media.SpectrogramRenderer
	Grabber      media.FrameGrabber
	Encoder      media.FrameEncoder
	Store        media.ArtifactStore
}

// Service converts media files into a single visual artifact
type Service struct {
	deps   Dependencies
	stft   audio.STFTConfig
	amin   float64
	topDB  float64
	logger *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithSTFT overrides the FFT size and hop length used for spectrograms
func WithSTFT(cfg audio.STFTConfig) Option {
	return func(s *Service) {
		s.stft = cfg
	}
}

// WithTopDB sets the dynamic range floor of the decibel scale
func WithTopDB(topDB float64) Option {
	return func(s *Service) {
		s.topDB = topDB
	}
}

// WithLogger sets the service logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewService creates a new viewer Service
func NewService(deps Dependencies, opts ...Option) *Service {
	s := &Service{
		deps:   deps,
		stft:   audio.DefaultSTFTConfig(),
		amin:   audio.DefaultAmin,
		topDB:  audio.DefaultTopDB,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("service", "viewer"))
	return s
}

// View produces the tool result for path. It never fails: every error is
// rendered as an error result carrying the message.
func (s *Service) View(ctx context.Context, path string) media.Result {
	artifact, err := s.Inspect(ctx, path)
	if err != nil {
		return media.NewErrorResult(err.Error())
	}
	return media.NewSuccessResult(artifact)
}

// Inspect produces the visual artifact for path. A non-nil error is always a *media.Error.
func (s *Service) Inspect(ctx context.Context, path string) (artifact *media.VisualArtifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while viewing media", slog.String("path", path), slog.Any("panic", r))
			artifact = nil
			err = media.Unexpected(path, fmt.Errorf("panic: %v", r))
		}
	}()

	if !s.deps.Files.Exists(path) {
		return nil, media.NotFound(path)
	}

	ext := media.Extension(path)
	class := media.ClassifyExtension(ext)
	s.logger.Debug("classified media file", slog.String("path", path), slog.String("class", class.String()))

	switch class {
	case media.Image:
		artifact, err = s.viewImage(path, ext)
	case media.Audio:
		artifact, err = s.viewAudio(ctx, path)
	case media.Video:
		artifact, err = s.viewVideo(ctx, path)
	default:
		return nil, media.UnsupportedType(path, ext)
	}

	if err != nil {
		var merr *media.Error
		if !errors.As(err, &merr) {
			merr = media.Unexpected(path, err)
		}
		s.logger.Warn("view failed",
			slog.String("path", path),
			slog.String("kind", merr.Kind.String()),
			slog.Any("error", merr.Err))
		return nil, merr
	}
	return artifact, nil
}

func (s *Service) viewImage(path, ext string) (*media.VisualArtifact, error) {
	data, err := s.deps.Reader.ReadFile(path)
	if err != nil {
		return nil, media.Unexpected(path, err)
	}

	return &media.VisualArtifact{
		Data:      data,
		MediaType: media.ImageMediaType(ext),
		Caption:   media.Caption(media.Image, filepath.Base(path)),
		Class:     media.Image,
	}, nil
}

func (s *Service) viewAudio(ctx context.Context, path string) (*media.VisualArtifact, error) {
	name := filepath.Base(path)

	wave, err := s.deps.AudioDecoder.Decode(ctx, path)
	if err != nil {
		return nil, media.DecodeFailure(path, err)
	}
	if wave == nil || wave.Empty() {
		return nil, media.ExtractionFailure(path, media.ErrNoSamples)
	}

	spec, err := audio.Compute(wave, s.stft)
	if err != nil {
		return nil, media.Unexpected(path, err)
	}
	spec = spec.ToDecibels(s.amin, s.topDB)

	png, err := s.deps.Renderer.Render(spec, fmt.Sprintf("Spectrogram of %s", name))
	if err != nil {
		return nil, media.Unexpected(path, fmt.Errorf("failed to render spectrogram: %w", err))
	}

	return s.persist(path, media.DerivedSpectrogram, media.Audio, png)
}

func (s *Service) viewVideo(ctx context.Context, path string) (*media.VisualArtifact, error) {
	name := filepath.Base(path)

	handle, err := s.deps.Grabber.Open(ctx, path)
	if err != nil {
		return nil, media.DecodeFailure(path, err)
	}
	defer func() {
		if cerr := handle.Close(); cerr != nil {
			s.logger.Warn("failed to release video handle", slog.String("path", path), slog.Any("error", cerr))
		}
	}()

	count := handle.FrameCount()
	if count <= 0 {
		return nil, media.ExtractionFailure(path,
			fmt.Errorf("could not read middle frame from %s: %w", name, media.ErrNoFrame))
	}

	index := count / 2
	s.logger.Debug("reading middle frame", slog.String("path", path), slog.Int("frames", count), slog.Int("index", index))

	frame, err := handle.ReadFrame(ctx, index)
	if err != nil {
		return nil, media.ExtractionFailure(path,
			fmt.Errorf("could not read middle frame from %s: %w", name, err))
	}

	jpg, err := s.deps.Encoder.EncodeJPEG(frame)
	if err != nil {
		return nil, media.Unexpected(path, fmt.Errorf("failed to encode frame: %w", err))
	}

	return s.persist(path, media.DerivedMiddleFrame, media.Video, jpg)
}

// persist writes data to the cache and returns the artifact read back from disk
func (s *Service) persist(path string, kind media.DerivedKind, class media.HandlingClass, data []byte) (*media.VisualArtifact, error) {
	derived := s.deps.Store.Path(path, kind)
	if err := s.deps.Store.Write(derived, data); err != nil {
		return nil, media.Unexpected(path, err)
	}

	stored, err := s.deps.Store.Read(derived)
	if err != nil {
		return nil, media.Unexpected(path, err)
	}

	s.logger.Debug("wrote derived file", slog.String("path", path), slog.String("derived", derived), slog.Int("bytes", len(stored)))

	return &media.VisualArtifact{
		Data:        stored,
		MediaType:   kind.MediaType(),
		Caption:     media.Caption(class, filepath.Base(path)),
		Class:       class,
		DerivedPath: derived,
	}, nil
}
