package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"strconv"
	"strings"

	"media-viewer/domain/media"
)

// FrameGrabber implements media.FrameGrabber using ffprobe to count frames
// and ffmpeg to decode a single frame by index
type FrameGrabber struct {
	tools *Tools
}

// NewFrameGrabber creates a new ffmpeg-based frame grabber
func NewFrameGrabber(tools *Tools) *FrameGrabber {
	return &FrameGrabber{tools: tools}
}

// Open implements media.FrameGrabber. The container is probed once; the
// returned handle decodes frames on demand.
func (g *FrameGrabber) Open(ctx context.Context, path string) (media.VideoHandle, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "csv=p=0",
		path,
	}

	out, err := g.tools.Runner.Output(ctx, g.tools.FFprobePath, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", media.ErrCannotOpen, path, err)
	}

	count, err := parseFrameCount(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", media.ErrCannotOpen, path, err)
	}

	return &videoHandle{tools: g.tools, path: path, frames: count}, nil
}

func parseFrameCount(out []byte) (int, error) {
	line := strings.TrimSpace(string(out))
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSuffix(strings.TrimSpace(line), ",")
	if line == "" {
		return 0, fmt.Errorf("no video stream found")
	}
	count, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("invalid frame count %q", line)
	}
	if count < 0 {
		return 0, fmt.Errorf("invalid frame count %d", count)
	}
	return count, nil
}

type videoHandle struct {
	tools  *Tools
	path   string
	frames int
	closed bool
}

func (h *videoHandle) FrameCount() int {
	return h.frames
}

func (h *videoHandle) ReadFrame(ctx context.Context, index int) (image.Image, error) {
	if h.closed {
		return nil, fmt.Errorf("video handle closed")
	}
	if index < 0 || index >= h.frames {
		return nil, fmt.Errorf("%w: index %d of %d frames", media.ErrNoFrame, index, h.frames)
	}

	args := []string{
		"-v", "error",
		"-i", h.path,
		"-map", "0:v:0",
		"-vf", fmt.Sprintf(`select=eq(n\,%d)`, index),
		"-vsync", "0",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "png",
		"-",
	}

	out, err := h.tools.Runner.Output(ctx, h.tools.FFmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg frame decode failed: %v", media.ErrNoFrame, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: index %d", media.ErrNoFrame, index)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrNoFrame, err)
	}
	return img, nil
}

func (h *videoHandle) Close() error {
	h.closed = true
	return nil
}

// Ensure FrameGrabber implements media.FrameGrabber
var _ media.FrameGrabber = (*FrameGrabber)(nil)
