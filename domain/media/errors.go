package media

import (
	"errors"
	"fmt"
)

// Kind classifies why a view request failed
type Kind int

const (
	// KindUnexpected covers internal failures such as cache I/O errors
	KindUnexpected Kind = iota

	// KindNotFound means the source path does not exist
	KindNotFound

	// KindUnsupportedType means the extension is not in any recognized set
	KindUnsupportedType

	// KindDecode means the audio or video stream could not be parsed
	KindDecode

	// KindExtraction means the stream parsed but had no usable frame or samples
	KindExtraction
)

// String returns a short name for the kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnsupportedType:
		return "unsupported_type"
	case KindDecode:
		return "decode_failure"
	case KindExtraction:
		return "extraction_failure"
	default:
		return "unexpected"
	}
}

var (
	// ErrNoSamples is returned when an audio stream decodes to zero samples
	ErrNoSamples = errors.New("audio stream contains no samples")

	// ErrNoFrame is returned when a video yields no frame at the requested index
	ErrNoFrame = errors.New("no frame at requested index")

	// ErrCannotOpen is returned when a video container cannot be opened
	ErrCannotOpen = errors.New("cannot open video file")
)

// Error is a classified failure for a single source path
type Error struct {
	Kind Kind
	Path string

	// Ext is the offending extension for KindUnsupportedType
	Ext string

	Err error
}

// Error renders the human-readable message returned to callers
func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("Error: File not found at '%s'", e.Path)
	case KindUnsupportedType:
		return fmt.Sprintf("Error: Unsupported file type '%s' for viewing '%s'.", e.Ext, e.Path)
	default:
		cause := "unknown error"
		if e.Err != nil {
			cause = e.Err.Error()
		}
		return fmt.Sprintf("An error occurred while trying to view '%s': %s", e.Path, cause)
	}
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a KindNotFound error
func NotFound(path string) *Error {
	return &Error{Kind: KindNotFound, Path: path}
}

// UnsupportedType creates a KindUnsupportedType error naming the extension
func UnsupportedType(path, ext string) *Error {
	return &Error{Kind: KindUnsupportedType, Path: path, Ext: ext}
}

// DecodeFailure creates a KindDecode error wrapping cause
func DecodeFailure(path string, cause error) *Error {
	return &Error{Kind: KindDecode, Path: path, Err: cause}
}

// ExtractionFailure creates a KindExtraction error wrapping cause
func ExtractionFailure(path string, cause error) *Error {
	return &Error{Kind: KindExtraction, Path: path, Err: cause}
}

// Unexpected creates a KindUnexpected error wrapping cause
func Unexpected(path string, cause error) *Error {
	return &Error{Kind: KindUnexpected, Path: path, Err: cause}
}

// KindOf returns the Kind of err, or KindUnexpected if err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
