package edge

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/ironsheep/edge-detect-mcp/internal/convolution"
)

var (
	// ErrPreconditionNotMet is returned by thinning and line transforms when no
	// detection pass has produced a magnitude map.
	ErrPreconditionNotMet = errors.New("precondition not met: no edge detection result")

	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// OutputMode selects how detector output is rendered.
type OutputMode int

const (
	// Overlay paints edges in the highlight color on top of the source.
	Overlay OutputMode = iota
	// MagnitudeMap renders attenuated gradient magnitude as a standalone map.
	MagnitudeMap
)

func (m OutputMode) String() string {
	switch m {
	case Overlay:
		return "overlay"
	case MagnitudeMap:
		return "magnitude-map"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// ParseOutputMode parses "overlay" or "magnitude-map". The empty string
// selects Overlay.
func ParseOutputMode(s string) (OutputMode, error) {
	switch s {
	case "", "overlay":
		return Overlay, nil
	case "magnitude-map":
		return MagnitudeMap, nil
	default:
		return 0, fmt.Errorf("%w: output mode %q", ErrInvalidConfig, s)
	}
}

// ChannelMode selects where magnitude-map values are written.
type ChannelMode int

const (
	// RGB writes the value to R, G and B with an opaque alpha.
	RGB ChannelMode = iota
	// AlphaOnly writes the value to alpha only, leaving R, G, B at zero.
	AlphaOnly
)

func (m ChannelMode) String() string {
	switch m {
	case RGB:
		return "rgb"
	case AlphaOnly:
		return "alpha-only"
	default:
		return fmt.Sprintf("ChannelMode(%d)", int(m))
	}
}

// ParseChannelMode parses "rgb" or "alpha-only". The empty string selects RGB.
func ParseChannelMode(s string) (ChannelMode, error) {
	switch s {
	case "", "rgb":
		return RGB, nil
	case "alpha-only":
		return AlphaOnly, nil
	default:
		return 0, fmt.Errorf("%w: channel mode %q", ErrInvalidConfig, s)
	}
}

// Highlight is the default edge color in overlay mode.
var Highlight = color.NRGBA{R: 255, G: 255, B: 0, A: 255}

const (
	// DefaultNonEdgeAlpha is the alpha given to non-edge source pixels in overlay mode.
	DefaultNonEdgeAlpha = 200

	// DefaultAttenuation divides magnitudes before they are written to a magnitude map.
	DefaultAttenuation = 4.0
)

// Config controls one pipeline run.
type Config struct {
	// Kernel is a registered operator name, e.g. "sobel".
	Kernel string

	// Threshold is the largest magnitude still treated as "not an edge".
	Threshold float64

	OutputMode  OutputMode
	ChannelMode ChannelMode

	// Highlight is the overlay edge and boundary fill color.
	Highlight color.NRGBA

	// NonEdgeAlpha replaces the alpha of non-edge source pixels in overlay mode.
	NonEdgeAlpha uint8

	// Attenuation divides magnitudes in magnitude-map mode. Must be > 0.
	Attenuation float64

	// Thin runs the configured Thinner between detection and rendering.
	Thin bool
}

// DefaultConfig returns sobel, threshold 0, yellow overlay.
func DefaultConfig() Config {
	return Config{
		Kernel:       convolution.DefaultOperator,
		Threshold:    0,
		OutputMode:   Overlay,
		ChannelMode:  RGB,
		Highlight:    Highlight,
		NonEdgeAlpha: DefaultNonEdgeAlpha,
		Attenuation:  DefaultAttenuation,
	}
}

// Validate checks value ranges and that Kernel is registered.
func (c Config) Validate() error {
	if err := validateThreshold(c.Threshold); err != nil {
		return err
	}
	if c.Attenuation <= 0 || math.IsNaN(c.Attenuation) || math.IsInf(c.Attenuation, 0) {
		return fmt.Errorf("%w: attenuation %v must be a positive number", ErrInvalidConfig, c.Attenuation)
	}
	if c.OutputMode != Overlay && c.OutputMode != MagnitudeMap {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.OutputMode)
	}
	if c.ChannelMode != RGB && c.ChannelMode != AlphaOnly {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.ChannelMode)
	}
	if _, err := convolution.Lookup(c.Kernel); err != nil {
		return err
	}
	return nil
}

// Renderer returns the renderer described by c.
func (c Config) Renderer() Renderer {
	return Renderer{
		Mode:         c.OutputMode,
		Channel:      c.ChannelMode,
		Highlight:    c.Highlight,
		NonEdgeAlpha: c.NonEdgeAlpha,
		Attenuation:  c.Attenuation,
	}
}

func validateThreshold(t float64) error {
	if t < 0 || math.IsNaN(t) {
		return fmt.Errorf("%w: threshold %v must be non-negative", ErrInvalidConfig, t)
	}
	return nil
}
