package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// HandlingClass is the extraction strategy selected for a media file
type HandlingClass int

const (
	// Unsupported is any extension outside the recognized sets
	Unsupported HandlingClass = iota

	// Image files are passed through verbatim
	Image

	// Audio files are rendered as a spectrogram
	Audio

	// Video files are represented by their middle frame
	Video
)

// String returns the lowercase name of the handling class
func (c HandlingClass) String() string {
	switch c {
	case Image:
		return "image"
	case Audio:
		return "audio"
	case Video:
		return "video"
	default:
		return "unsupported"
	}
}

// classTable maps lowercase extensions to their handling class
var classTable = map[string]HandlingClass{
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
	".webp": Image,
	".gif":  Image,

	".wav":  Audio,
	".mp3":  Audio,
	".flac": Audio,
	".m4a":  Audio,

	".mp4": Video,
	".mov": Video,
	".avi": Video,
	".mkv": Video,
}

// Extension returns the lowercase extension of path, including the leading dot
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ClassifyExtension maps an extension to its handling class.
// The extension is lower-cased before lookup; unknown extensions yield Unsupported.
func ClassifyExtension(ext string) HandlingClass {
	if class, ok := classTable[strings.ToLower(ext)]; ok {
		return class
	}
	return Unsupported
}

// Classify returns the handling class for a file path
func Classify(path string) HandlingClass {
	return ClassifyExtension(Extension(path))
}

// Extensions returns the sorted extensions recognized for a handling class
func Extensions(class HandlingClass) []string {
	var exts []string
	for ext, c := range classTable {
		if c == class {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// ImageMediaType returns the MIME type used for a pass-through image extension.
// ".jpg" is reported as image/jpeg, every other extension as image/<ext>.
func ImageMediaType(ext string) string {
	ext = strings.ToLower(ext)
	if ext == ".jpg" {
		return MediaTypeJPEG
	}
	return "image/" + strings.TrimPrefix(ext, ".")
}
