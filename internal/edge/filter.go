package edge

import (
	"fmt"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/edge-detect-mcp/internal/convolution"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// Filter transforms one buffer into a new one. Filters never modify their
// input.
type Filter interface {
	Apply(buf *pixel.Buffer) (*pixel.Buffer, error)
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(buf *pixel.Buffer) (*pixel.Buffer, error)

// Apply calls f(buf).
func (f FilterFunc) Apply(buf *pixel.Buffer) (*pixel.Buffer, error) { return f(buf) }

// Chain applies filters in order. An empty chain returns its input.
func Chain(filters ...Filter) Filter {
	return FilterFunc(func(buf *pixel.Buffer) (*pixel.Buffer, error) {
		var err error
		for i, f := range filters {
			if buf, err = f.Apply(buf); err != nil {
				return nil, fmt.Errorf("filter %d: %w", i, err)
			}
		}
		return buf, nil
	})
}

// Grayscale converts to luminance so the red-channel proxy used by the
// detector sees true brightness on color input.
func Grayscale() Filter {
	return FilterFunc(func(buf *pixel.Buffer) (*pixel.Buffer, error) {
		gray := effect.Grayscale(buf.Image())
		return pixel.FromImage(gray), nil
	})
}

// MaxBlurRadius bounds GaussianBlur; the blur kernel grows with the radius.
const MaxBlurRadius = 32.0

// GaussianBlur smooths the buffer with the given radius. A radius <= 0
// returns the input unchanged and one above MaxBlurRadius fails with
// ErrInvalidConfig.
func GaussianBlur(radius float64) Filter {
	return FilterFunc(func(buf *pixel.Buffer) (*pixel.Buffer, error) {
		if radius > MaxBlurRadius {
			return nil, fmt.Errorf("%w: blur radius %v exceeds %v", ErrInvalidConfig, radius, MaxBlurRadius)
		}
		if radius <= 0 {
			return buf, nil
		}
		return pixel.FromImage(blur.Gaussian(buf.Image(), radius)), nil
	})
}

// KernelResponse renders the raw response of a single kernel component such
// as "sobel.x". Each window sum s becomes the gray pixel (s, s, s, 255),
// clamped to [0, 255]; the truncated leading region is filled with
// transparent black.
func KernelResponse(name string) (Filter, error) {
	k, err := convolution.LookupKernel(name)
	if err != nil {
		return nil, err
	}
	return FilterFunc(func(buf *pixel.Buffer) (*pixel.Buffer, error) {
		sums := convolution.Convolve(buf.Project(pixel.Red), buf.Width(), k)

		out := make([]pixel.RGBA, buf.Len()-len(sums), buf.Len())
		for _, s := range sums {
			v := clampByte(s)
			out = append(out, pixel.RGBA{R: v, G: v, B: v, A: 255})
		}
		return pixel.FromPixels(buf.Width(), buf.Height(), out)
	}), nil
}
