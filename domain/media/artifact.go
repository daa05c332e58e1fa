package media

import (
	"encoding/base64"
	"path/filepath"
	"strings"
)

// Media types produced by the viewer
const (
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// VisualArtifact is the single image produced for a media file
type VisualArtifact struct {
	// Data holds the encoded image bytes
	Data []byte

	// MediaType is the MIME type matching the encoding of Data
	MediaType string

	// Caption is a human-readable description of what the image shows
	Caption string

	// Class is the handling class the artifact was produced by
	Class HandlingClass

	// DerivedPath is the cache file the artifact was read back from (empty for images)
	DerivedPath string
}

// Base64 returns the standard base64 encoding of the artifact data
func (a *VisualArtifact) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}

// DerivedKind identifies the type of derived file written to the cache
type DerivedKind string

const (
	// DerivedSpectrogram is the PNG spectrogram rendered for audio files
	DerivedSpectrogram DerivedKind = "_spectrogram.png"

	// DerivedMiddleFrame is the JPEG frame extracted from video files
	DerivedMiddleFrame DerivedKind = "_middle_frame.jpg"
)

// Suffix returns the filename suffix appended to the source stem
func (k DerivedKind) Suffix() string {
	return string(k)
}

// MediaType returns the MIME type of the derived file
func (k DerivedKind) MediaType() string {
	if k == DerivedSpectrogram {
		return MediaTypePNG
	}
	return MediaTypeJPEG
}

// Stem returns the base filename of path without its final extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DerivedFilename returns the deterministic cache filename for a source file
func DerivedFilename(sourcePath string, kind DerivedKind) string {
	return Stem(sourcePath) + kind.Suffix()
}
