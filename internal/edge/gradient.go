package edge

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/edge-detect-mcp/internal/convolution"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// GradientMap holds per-window gradient magnitude and direction.
//
// Entry i describes the convolution window whose top-left corner is at flat
// pixel index i of a Width×Height image. Only windows the engine could
// compute are present, so the map is Offset() entries shorter than the image.
// Direction is in radians, atan2(sumX, sumY), and is only meaningful where
// Magnitude is nonzero.
type GradientMap struct {
	Width      int
	Height     int
	KernelSize int
	Magnitude  []float64
	Direction  []float64
}

// Len returns the number of windows.
func (g *GradientMap) Len() int { return len(g.Magnitude) }

// Offset returns how many entries are missing relative to a full
// Width×Height image.
func (g *GradientMap) Offset() int { return g.Width*g.Height - len(g.Magnitude) }

// IsEdge reports whether window i survived thresholding.
func (g *GradientMap) IsEdge(i int) bool { return g.Magnitude[i] != 0 }

// WindowCenter returns the pixel at the centre of window i.
func (g *GradientMap) WindowCenter(i int) image.Point {
	return WindowCenter(i, g.Width, g.KernelSize)
}

// WindowCenter returns the pixel at the centre of window i of a kernelSize
// kernel slid over an image width pixels wide. Windows anchored near the
// right edge wrap, so their centre lands on the next row.
func WindowCenter(i, width, kernelSize int) image.Point {
	half := kernelSize / 2
	c := i + half*width + half
	return image.Pt(c%width, c/width)
}

// KernelSizeFor recovers the kernel size that turned an n-pixel image width
// pixels wide into windows entries. It returns false when no square kernel
// produces that count.
func KernelSizeFor(n, width, windows int) (int, bool) {
	offset := n - windows
	if width <= 0 || windows <= 0 || offset < 0 || offset%(width+1) != 0 {
		return 0, false
	}
	return offset/(width+1) + 1, true
}

// EdgeCount returns the number of windows with nonzero magnitude.
func (g *GradientMap) EdgeCount() int {
	n := 0
	for _, m := range g.Magnitude {
		if m != 0 {
			n++
		}
	}
	return n
}

// MaxMagnitude returns the largest magnitude in the map, or 0 if empty.
func (g *GradientMap) MaxMagnitude() float64 {
	var max float64
	for _, m := range g.Magnitude {
		if m > max {
			max = m
		}
	}
	return max
}

// Threshold returns a copy with every magnitude <= t suppressed to (0, 0).
func (g *GradientMap) Threshold(t float64) *GradientMap {
	out := &GradientMap{
		Width:      g.Width,
		Height:     g.Height,
		KernelSize: g.KernelSize,
		Magnitude:  make([]float64, len(g.Magnitude)),
		Direction:  make([]float64, len(g.Direction)),
	}
	for i, m := range g.Magnitude {
		if m > t {
			out.Magnitude[i] = m
			out.Direction[i] = g.Direction[i]
		}
	}
	return out
}

// Detector computes thresholded gradient maps.
type Detector struct {
	// Engine performs the convolutions. Nil means convolution.Direct.
	Engine convolution.Engine

	// Channel is the luminance proxy projected from the input.
	Channel pixel.Channel
}

// NewDetector returns a Detector using direct convolution on the red channel.
func NewDetector() *Detector {
	return &Detector{Engine: convolution.Direct{}, Channel: pixel.Red}
}

// Detect runs the detector returned by NewDetector.
func Detect(buf *pixel.Buffer, kernelName string, threshold float64) (*GradientMap, error) {
	return NewDetector().Detect(buf, kernelName, threshold)
}

// Detect projects buf to a single channel, convolves it with the X and Y
// kernels of the named operator and combines them per window:
//
//	magnitude = sqrt(sumX² + sumY²)
//	direction = atan2(sumX, sumY)
//
// Windows with magnitude <= threshold are set to (0, 0).
//
// The operator name is resolved before any projection or convolution, so an
// unregistered name fails with convolution.ErrUnknownKernel without doing
// any work.
func (d *Detector) Detect(buf *pixel.Buffer, kernelName string, threshold float64) (*GradientMap, error) {
	pair, err := convolution.Lookup(kernelName)
	if err != nil {
		return nil, err
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", pixel.ErrDimensionMismatch)
	}

	engine := d.Engine
	if engine == nil {
		engine = convolution.Direct{}
	}

	channel := buf.Project(d.Channel)
	sumX := engine.Convolve(channel, buf.Width(), pair.X)
	sumY := engine.Convolve(channel, buf.Width(), pair.Y)
	if len(sumX) != len(sumY) {
		return nil, fmt.Errorf("%w: engine returned %d x-sums and %d y-sums",
			pixel.ErrDimensionMismatch, len(sumX), len(sumY))
	}

	gm := &GradientMap{
		Width:      buf.Width(),
		Height:     buf.Height(),
		KernelSize: pair.X.Size(),
		Magnitude:  make([]float64, len(sumX)),
		Direction:  make([]float64, len(sumX)),
	}
	for i := range sumX {
		mag := math.Sqrt(sumX[i]*sumX[i] + sumY[i]*sumY[i])
		if mag > threshold {
			gm.Magnitude[i] = mag
			gm.Direction[i] = math.Atan2(sumX[i], sumY[i])
		}
	}

	Logger().Debug("gradient computed",
		"kernel", pair.Name,
		"width", gm.Width,
		"height", gm.Height,
		"windows", gm.Len(),
		"edges", gm.EdgeCount())

	return gm, nil
}
