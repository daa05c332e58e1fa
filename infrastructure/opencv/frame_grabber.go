//go:build opencv

package opencv

import (
	"context"
	"fmt"
	"image"

	"media-viewer/domain/media"

	"gocv.io/x/gocv"
)

// FrameGrabber implements media.FrameGrabber using GoCV VideoCapture
type FrameGrabber struct{}

// NewFrameGrabber creates a new OpenCV-backed frame grabber
func NewFrameGrabber() *FrameGrabber {
	return &FrameGrabber{}
}

// Available reports whether this build includes OpenCV support
func Available() bool {
	return true
}

// Open implements media.FrameGrabber
func (g *FrameGrabber) Open(ctx context.Context, path string) (media.VideoHandle, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", media.ErrCannotOpen, path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s", media.ErrCannotOpen, path)
	}

	return &videoHandle{capture: vc}, nil
}

type videoHandle struct {
	capture *gocv.VideoCapture
}

func (h *videoHandle) FrameCount() int {
	return int(h.capture.Get(gocv.VideoCaptureFrameCount))
}

func (h *videoHandle) ReadFrame(ctx context.Context, index int) (image.Image, error) {
	h.capture.Set(gocv.VideoCapturePosFrames, float64(index))

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := h.capture.Read(&frame); !ok || frame.Empty() {
		return nil, fmt.Errorf("%w: index %d", media.ErrNoFrame, index)
	}

	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrNoFrame, err)
	}
	return img, nil
}

func (h *videoHandle) Close() error {
	return h.capture.Close()
}

// Ensure FrameGrabber implements media.FrameGrabber
var _ media.FrameGrabber = (*FrameGrabber)(nil)
