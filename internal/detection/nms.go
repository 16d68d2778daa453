package detection

import (
	"fmt"
	"math"

	"github.com/ironsheep/edge-detect-mcp/internal/edge"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// sin(22.5°): unit gradient components below this round to 0 steps.
var octant = math.Sin(math.Pi / 8)

// NMSThinner thins edges to one window width by non-maximum suppression.
//
// The magnitude map is treated as a grid of windows buf.Width() wide. For
// each nonzero window the gradient direction is quantized to one of four
// axes (horizontal, vertical, two diagonals) and the window is kept only if
// its magnitude is at least that of both neighbours along the axis. Windows
// whose neighbours fall outside the grid are suppressed.
type NMSThinner struct{}

var _ edge.Thinner = NMSThinner{}

// Thin implements edge.Thinner.
func (NMSThinner) Thin(buf *pixel.Buffer, magnitude, direction []float64) ([]float64, error) {
	if err := edge.RequireGradient(magnitude); err != nil {
		return nil, err
	}
	if buf == nil || buf.Width() == 0 {
		return nil, fmt.Errorf("%w: no source buffer", pixel.ErrDimensionMismatch)
	}
	if len(direction) != len(magnitude) {
		return nil, fmt.Errorf("%w: %d magnitudes, %d directions",
			pixel.ErrDimensionMismatch, len(magnitude), len(direction))
	}

	width := buf.Width()
	out := make([]float64, len(magnitude))

	for i, mag := range magnitude {
		if mag == 0 {
			continue
		}

		// direction is atan2(sumX, sumY): sumX ~ sin, sumY ~ cos
		dx := step(math.Sin(direction[i]))
		dy := step(math.Cos(direction[i]))

		x := i % width
		if x+dx < 0 || x+dx >= width || x-dx < 0 || x-dx >= width {
			continue
		}
		n1 := i + dy*width + dx
		n2 := i - dy*width - dx
		if n1 < 0 || n1 >= len(magnitude) || n2 < 0 || n2 >= len(magnitude) {
			continue
		}

		if mag >= magnitude[n1] && mag >= magnitude[n2] {
			out[i] = mag
		}
	}

	return out, nil
}

func step(v float64) int {
	switch {
	case v > octant:
		return 1
	case v < -octant:
		return -1
	default:
		return 0
	}
}
