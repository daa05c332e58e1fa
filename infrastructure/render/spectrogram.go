package render

import (
	"bytes"
	"fmt"

	"media-viewer/domain/audio"
	"media-viewer/domain/media"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Canvas defaults: 10x4 inches at 96 DPI is a 960x384 pixel PNG
const (
	DefaultWidthInches  = 10.0
	DefaultHeightInches = 4.0
	DefaultDPI          = 96
	DefaultMaxColumns   = 600
	paletteSize         = 256
)

// SpectrogramRenderer implements media.SpectrogramRenderer with gonum/plot
type SpectrogramRenderer struct {
	width      vg.Length
	height     vg.Length
	dpi        int
	maxColumns int
}

// SpectrogramOption is a functional option for configuring SpectrogramRenderer
type SpectrogramOption func(*SpectrogramRenderer)

// WithCanvasInches sets the canvas size in inches
func WithCanvasInches(width, height float64) SpectrogramOption {
	return func(r *SpectrogramRenderer) {
		if width > 0 && height > 0 {
			r.width = vg.Length(width) * vg.Inch
			r.height = vg.Length(height) * vg.Inch
		}
	}
}

// WithDPI sets the rasterization resolution
func WithDPI(dpi int) SpectrogramOption {
	return func(r *SpectrogramRenderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithMaxColumns limits the number of time columns drawn (0 disables pooling)
func WithMaxColumns(n int) SpectrogramOption {
	return func(r *SpectrogramRenderer) {
		r.maxColumns = n
	}
}

// NewSpectrogramRenderer creates a renderer with the default canvas
func NewSpectrogramRenderer(opts ...SpectrogramOption) *SpectrogramRenderer {
	r := &SpectrogramRenderer{
		width:      DefaultWidthInches * vg.Inch,
		height:     DefaultHeightInches * vg.Inch,
		dpi:        DefaultDPI,
		maxColumns: DefaultMaxColumns,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// PixelSize returns the width and height in pixels of rendered images
func (r *SpectrogramRenderer) PixelSize() (int, int) {
	w := r.width / vg.Inch * vg.Length(r.dpi)
	h := r.height / vg.Inch * vg.Length(r.dpi)
	return int(w + 0.5), int(h + 0.5)
}

// Render implements media.SpectrogramRenderer. The spectrogram is expected in
// decibels; the DC bin is dropped so the frequency axis can be logarithmic.
func (r *SpectrogramRenderer) Render(spec *audio.Spectrogram, title string) ([]byte, error) {
	if spec.Frames() == 0 || spec.Bins() < 2 {
		return nil, fmt.Errorf("spectrogram has no drawable bins")
	}
	spec = spec.Pool(r.maxColumns)

	grid := spectrogramGrid{spec: spec}
	heat := plotter.NewHeatMap(grid, palette.Heat(paletteSize, 1))
	if heat.Max <= heat.Min {
		heat.Min = heat.Max - 1
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Hz"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(heat)

	c := vgimg.NewWith(vgimg.UseWH(r.width, r.height), vgimg.UseDPI(r.dpi))
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode spectrogram png: %w", err)
	}
	return buf.Bytes(), nil
}

// spectrogramGrid adapts a spectrogram to plotter.GridXYZ, skipping bin 0
type spectrogramGrid struct {
	spec *audio.Spectrogram
}

func (g spectrogramGrid) Dims() (c, r int)   { return g.spec.Frames(), g.spec.Bins() - 1 }
func (g spectrogramGrid) Z(c, r int) float64 { return g.spec.Values[c][r+1] }
func (g spectrogramGrid) X(c int) float64    { return g.spec.Times[c] }
func (g spectrogramGrid) Y(r int) float64    { return g.spec.Frequency(r + 1) }

// Ensure SpectrogramRenderer implements media.SpectrogramRenderer
var _ media.SpectrogramRenderer = (*SpectrogramRenderer)(nil)
