package pixel

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrDimensionMismatch is returned when a sample slice does not match the
// declared width and height.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// RGBA is a single non-premultiplied 8-bit sample.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Channel selects one component of an RGBA sample.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Alpha
)

// String returns the lowercase channel name.
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Alpha:
		return "alpha"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Buffer is an immutable width×height grid of RGBA8 samples.
type Buffer struct {
	width   int
	height  int
	samples []uint8
}

// New builds a Buffer from a flat row-major sample slice holding four bytes
// (R, G, B, A) per pixel. The slice is copied.
//
// Returns ErrDimensionMismatch if either dimension is negative or
// len(samples) != width*height*4.
func New(width, height int, samples []uint8) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrDimensionMismatch, width, height)
	}
	if len(samples) != width*height*4 {
		return nil, fmt.Errorf("%w: %d samples for %dx%d image, want %d",
			ErrDimensionMismatch, len(samples), width, height, width*height*4)
	}
	s := make([]uint8, len(samples))
	copy(s, samples)
	return &Buffer{width: width, height: height, samples: s}, nil
}

// FromPixels builds a Buffer from one RGBA value per pixel.
func FromPixels(width, height int, px []RGBA) (*Buffer, error) {
	if width < 0 || height < 0 || len(px) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d image",
			ErrDimensionMismatch, len(px), width, height)
	}
	return &Buffer{width: width, height: height, samples: flatten(px)}, nil
}

// FromImage converts img to a Buffer. The result is rebased so that the
// image's top-left bound maps to (0, 0).
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	dst, ok := img.(*image.NRGBA)
	if !ok {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}

	samples := make([]uint8, 0, b.Dx()*b.Dy()*4)
	for y := 0; y < b.Dy(); y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		samples = append(samples, row...)
	}
	return &Buffer{width: b.Dx(), height: b.Dy(), samples: samples}
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Len returns the number of pixels.
func (b *Buffer) Len() int { return b.width * b.height }

// At returns the sample at (x, y). It panics if the coordinate is out of
// range, like indexing a slice.
func (b *Buffer) At(x, y int) RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("pixel: (%d,%d) out of range %dx%d", x, y, b.width, b.height))
	}
	return b.Index(y*b.width + x)
}

// Index returns the sample at flat row-major index i.
func (b *Buffer) Index(i int) RGBA {
	o := i * 4
	return RGBA{R: b.samples[o], G: b.samples[o+1], B: b.samples[o+2], A: b.samples[o+3]}
}

// Project extracts one channel as a row-major scalar sequence.
func (b *Buffer) Project(c Channel) []float64 {
	out := make([]float64, b.Len())
	for i := range out {
		out[i] = float64(b.samples[i*4+int(c)])
	}
	return out
}

// Samples returns a copy of the flat RGBA sample data.
func (b *Buffer) Samples() []uint8 {
	s := make([]uint8, len(b.samples))
	copy(s, b.samples)
	return s
}

// Image returns a copy of the buffer as an *image.NRGBA anchored at (0, 0).
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.samples)
	return img
}

func flatten(px []RGBA) []uint8 {
	s := make([]uint8, len(px)*4)
	for i, p := range px {
		s[i*4] = p.R
		s[i*4+1] = p.G
		s[i*4+2] = p.B
		s[i*4+3] = p.A
	}
	return s
}
