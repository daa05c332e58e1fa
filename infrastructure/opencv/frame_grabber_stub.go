//go:build !opencv

package opencv

import (
	"context"
	"errors"

	"media-viewer/domain/media"
)

// ErrNotAvailable is returned when the binary was built without OpenCV
var ErrNotAvailable = errors.New("opencv frame grabber requires -tags=opencv build and OpenCV/GoCV")

// FrameGrabber is a stub when GoCV/OpenCV is not available
type FrameGrabber struct{}

// NewFrameGrabber creates a stub grabber (requires building with -tags=opencv)
func NewFrameGrabber() *FrameGrabber {
	return &FrameGrabber{}
}

// Available reports whether this build includes OpenCV support
func Available() bool {
	return false
}

// Open returns an error indicating OpenCV is not available
func (g *FrameGrabber) Open(ctx context.Context, path string) (media.VideoHandle, error) {
	return nil, ErrNotAvailable
}

// Ensure FrameGrabber implements media.FrameGrabber
var _ media.FrameGrabber = (*FrameGrabber)(nil)
