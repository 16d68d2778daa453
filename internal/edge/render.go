package edge

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// Renderer turns a GradientMap into a full-size display buffer.
//
// The map is shorter than the image by GradientMap.Offset() windows. The
// renderer restores the full size by emitting that many filler pixels first
// and then one pixel per window in scan order, so output pixel p shows
// window p-Offset(). Filler is the highlight color in overlay mode and the
// non-edge background in magnitude-map mode.
type Renderer struct {
	Mode    OutputMode
	Channel ChannelMode

	// Highlight marks edges and the boundary filler in overlay mode.
	Highlight color.NRGBA

	// NonEdgeAlpha is the alpha of non-edge source pixels in overlay mode.
	NonEdgeAlpha uint8

	// Attenuation divides magnitudes in magnitude-map mode.
	Attenuation float64
}

// Render produces a buffer with the same dimensions as src.
func (r Renderer) Render(src *pixel.Buffer, gm *GradientMap) (*pixel.Buffer, error) {
	if src == nil || gm == nil {
		return nil, fmt.Errorf("%w: nil input", pixel.ErrDimensionMismatch)
	}
	if src.Width() != gm.Width || src.Height() != gm.Height {
		return nil, fmt.Errorf("%w: source %dx%d, gradient %dx%d",
			pixel.ErrDimensionMismatch, src.Width(), src.Height(), gm.Width, gm.Height)
	}
	if len(gm.Direction) != len(gm.Magnitude) || gm.Offset() < 0 {
		return nil, fmt.Errorf("%w: gradient holds %d magnitudes and %d directions for %d pixels",
			pixel.ErrDimensionMismatch, len(gm.Magnitude), len(gm.Direction), src.Len())
	}

	switch r.Mode {
	case Overlay:
		return r.overlay(src, gm)
	case MagnitudeMap:
		return r.magnitudeMap(src, gm)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, r.Mode)
	}
}

func (r Renderer) overlay(src *pixel.Buffer, gm *GradientMap) (*pixel.Buffer, error) {
	hl := pixel.RGBA{R: r.Highlight.R, G: r.Highlight.G, B: r.Highlight.B, A: r.Highlight.A}
	out := make([]pixel.RGBA, 0, src.Len())

	for i := 0; i < gm.Offset(); i++ {
		out = append(out, hl)
	}
	for i := range gm.Magnitude {
		if gm.IsEdge(i) {
			out = append(out, hl)
			continue
		}
		p := src.Index(i)
		p.A = r.NonEdgeAlpha
		out = append(out, p)
	}

	return pixel.FromPixels(src.Width(), src.Height(), out)
}

func (r Renderer) magnitudeMap(src *pixel.Buffer, gm *GradientMap) (*pixel.Buffer, error) {
	if r.Attenuation <= 0 {
		return nil, fmt.Errorf("%w: attenuation %v must be positive", ErrInvalidConfig, r.Attenuation)
	}

	background := pixel.RGBA{A: 255}
	if r.Channel == AlphaOnly {
		background.A = 0
	}

	out := make([]pixel.RGBA, 0, src.Len())
	for i := 0; i < gm.Offset(); i++ {
		out = append(out, background)
	}
	for i, m := range gm.Magnitude {
		if !gm.IsEdge(i) {
			out = append(out, background)
			continue
		}
		v := clampByte(m / r.Attenuation)
		if r.Channel == AlphaOnly {
			out = append(out, pixel.RGBA{A: v})
		} else {
			out = append(out, pixel.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	return pixel.FromPixels(src.Width(), src.Height(), out)
}

// clampByte rounds half to even and clamps to [0, 255].
func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
