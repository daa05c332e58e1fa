package render

import (
	"bytes"
	"fmt"
	"image"

	"media-viewer/domain/media"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// DefaultJPEGQuality matches the OpenCV imwrite default
const DefaultJPEGQuality = 95

// FrameEncoder implements media.FrameEncoder using bild
type FrameEncoder struct {
	quality      int
	maxDimension int
}

// NewFrameEncoder creates an encoder. quality outside 1..100 uses DefaultJPEGQuality;
// maxDimension > 0 downscales frames whose longest side exceeds it.
func NewFrameEncoder(quality, maxDimension int) *FrameEncoder {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &FrameEncoder{quality: quality, maxDimension: maxDimension}
}

// EncodeJPEG implements media.FrameEncoder
func (e *FrameEncoder) EncodeJPEG(img image.Image) ([]byte, error) {
	img = e.fit(img)

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(e.quality)(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *FrameEncoder) fit(img image.Image) image.Image {
	if e.maxDimension <= 0 {
		return img
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= e.maxDimension && h <= e.maxDimension {
		return img
	}

	if w >= h {
		h = max(1, h*e.maxDimension/w)
		w = e.maxDimension
	} else {
		w = max(1, w*e.maxDimension/h)
		h = e.maxDimension
	}
	return transform.Resize(img, w, h, transform.Lanczos)
}

// Ensure FrameEncoder implements media.FrameEncoder
var _ media.FrameEncoder = (*FrameEncoder)(nil)
