package edge

import (
	"fmt"

	"github.com/ironsheep/edge-detect-mcp/internal/convolution"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// Result is the outcome of one pipeline run.
type Result struct {
	// Output has the dimensions of the input buffer.
	Output *pixel.Buffer

	// Gradient is the (possibly thinned) map that Output was rendered from.
	Gradient *GradientMap
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPrefilter adds a filter applied to the input before detection. Filters
// run in the order they were added.
func WithPrefilter(f Filter) Option {
	return func(p *Pipeline) { p.prefilters = append(p.prefilters, f) }
}

// WithThinner sets the Thinner used when Config.Thin is true.
func WithThinner(t Thinner) Option {
	return func(p *Pipeline) { p.thinner = t }
}

// WithEngine replaces the convolution engine.
func WithEngine(e convolution.Engine) Option {
	return func(p *Pipeline) { p.detector.Engine = e }
}

// Pipeline runs pre-filters, detection, optional thinning and rendering.
// A Pipeline holds no per-run state and may be reused.
type Pipeline struct {
	cfg        Config
	detector   *Detector
	renderer   Renderer
	prefilters []Filter
	thinner    Thinner
}

// New validates cfg and builds a Pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:      cfg,
		detector: NewDetector(),
		renderer: cfg.Renderer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if cfg.Thin && p.thinner == nil {
		return nil, fmt.Errorf("%w: thinning requested without a thinner", ErrInvalidConfig)
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run processes buf and returns the rendered output with its gradient map.
func (p *Pipeline) Run(buf *pixel.Buffer) (*Result, error) {
	src := buf
	if len(p.prefilters) > 0 {
		var err error
		if src, err = Chain(p.prefilters...).Apply(buf); err != nil {
			return nil, fmt.Errorf("prefilter: %w", err)
		}
	}

	gm, err := p.detector.Detect(src, p.cfg.Kernel, p.cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	if p.cfg.Thin {
		if gm, err = ThinGradient(p.thinner, src, gm); err != nil {
			return nil, fmt.Errorf("thin: %w", err)
		}
	}

	// Overlay draws on the original pixels, not the pre-filtered ones.
	out, err := p.renderer.Render(buf, gm)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	Logger().Debug("pipeline finished",
		"mode", p.cfg.OutputMode.String(),
		"prefilters", len(p.prefilters),
		"thinned", p.cfg.Thin,
		"edges", gm.EdgeCount())

	return &Result{Output: out, Gradient: gm}, nil
}

// Apply implements Filter by returning only the rendered output.
func (p *Pipeline) Apply(buf *pixel.Buffer) (*pixel.Buffer, error) {
	res, err := p.Run(buf)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// ThinGradient applies t to gm and returns a new map. Directions of windows
// the thinner suppressed are reset to 0.
func ThinGradient(t Thinner, buf *pixel.Buffer, gm *GradientMap) (*GradientMap, error) {
	if gm == nil {
		return nil, ErrPreconditionNotMet
	}
	mag, err := t.Thin(buf, gm.Magnitude, gm.Direction)
	if err != nil {
		return nil, err
	}
	if len(mag) != len(gm.Magnitude) {
		return nil, fmt.Errorf("%w: thinner returned %d entries for %d windows",
			pixel.ErrDimensionMismatch, len(mag), len(gm.Magnitude))
	}

	out := &GradientMap{
		Width:      gm.Width,
		Height:     gm.Height,
		KernelSize: gm.KernelSize,
		Magnitude:  mag,
		Direction:  make([]float64, len(mag)),
	}
	for i, m := range mag {
		if m != 0 {
			out.Direction[i] = gm.Direction[i]
		}
	}
	return out, nil
}
