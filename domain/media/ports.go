package media

import (
	"context"
	"image"

	"media-viewer/domain/audio"
)

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the path exists
	Exists(path string) bool
}

// SourceReader reads source media files verbatim
type SourceReader interface {
	ReadFile(path string) ([]byte, error)
}

// AudioDecoder decodes an audio file into a mono waveform
// This is a port that can be implemented by different infrastructure adapters
type AudioDecoder interface {
	Decode(ctx context.Context, path string) (*audio.Waveform, error)
}

// SpectrogramRenderer draws a decibel spectrogram and returns PNG bytes
type SpectrogramRenderer interface {
	Render(spec *audio.Spectrogram, title string) ([]byte, error)
}

// FrameEncoder encodes a decoded video frame as JPEG
type FrameEncoder interface {
	EncodeJPEG(img image.Image) ([]byte, error)
}

// VideoHandle is an open video container supporting frame-indexed reads.
// Close must be called on every exit path once Open succeeds.
type VideoHandle interface {
	// FrameCount returns the total number of frames reported by the container
	FrameCount() int

	// ReadFrame seeks to index and decodes exactly one frame
	ReadFrame(ctx context.Context, index int) (image.Image, error)

	// Close releases the underlying decoder
	Close() error
}

// FrameGrabber opens video containers for frame-indexed reading
type FrameGrabber interface {
	Open(ctx context.Context, path string) (VideoHandle, error)
}

// ArtifactStore is the sink for derived files (spectrograms, frames)
type ArtifactStore interface {
	// Path returns the deterministic cache path for a source file and kind
	Path(sourcePath string, kind DerivedKind) string

	// Write replaces the file at path with data, creating the cache directory if needed
	Write(path string, data []byte) error

	// Read returns the contents of a previously written derived file
	Read(path string) ([]byte, error)
}
