package edge

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/edge-detect-mcp/internal/convolution"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

func TestNew_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, ErrInvalidConfig},
		{"zero attenuation", func(c *Config) { c.Attenuation = 0 }, ErrInvalidConfig},
		{"bad output mode", func(c *Config) { c.OutputMode = 9 }, ErrInvalidConfig},
		{"bad channel mode", func(c *Config) { c.ChannelMode = 9 }, ErrInvalidConfig},
		{"unknown kernel", func(c *Config) { c.Kernel = "roberts" }, convolution.ErrUnknownKernel},
		{"thin without thinner", func(c *Config) { c.Thin = true }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseOutputMode("magnitude-map"); err != nil || m != MagnitudeMap {
		t.Errorf("ParseOutputMode(magnitude-map): got %v, %v", m, err)
	}
	if m, err := ParseOutputMode(""); err != nil || m != Overlay {
		t.Errorf("ParseOutputMode(\"\"): got %v, %v", m, err)
	}
	if _, err := ParseOutputMode("heatmap"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseOutputMode(heatmap): got %v", err)
	}
	if m, err := ParseChannelMode("alpha-only"); err != nil || m != AlphaOnly {
		t.Errorf("ParseChannelMode(alpha-only): got %v, %v", m, err)
	}
	if _, err := ParseChannelMode("bgr"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseChannelMode(bgr): got %v", err)
	}
	if Overlay.String() != "overlay" || AlphaOnly.String() != "alpha-only" {
		t.Error("mode String() does not round trip")
	}
}

func TestPipeline_Run(t *testing.T) {
	buf := seamBuffer(t, 10, 6, 5)

	p, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := p.Run(buf)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Output.Width() != 10 || res.Output.Height() != 6 {
		t.Errorf("output: got %dx%d, want 10x6", res.Output.Width(), res.Output.Height())
	}
	if res.Gradient.EdgeCount() == 0 {
		t.Error("seam produced no edges")
	}
}

func TestPipeline_WithEngine(t *testing.T) {
	engine := &countingEngine{}
	p, err := New(DefaultConfig(), WithEngine(engine))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := p.Run(seamBuffer(t, 10, 6, 5))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if engine.calls != 2 {
		t.Errorf("engine calls: got %d, want 2 (x and y)", engine.calls)
	}

	direct, _ := Detect(seamBuffer(t, 10, 6, 5), "sobel", 0)
	if diff := cmp.Diff(direct.Magnitude, res.Gradient.Magnitude); diff != "" {
		t.Errorf("injected engine changed magnitudes (-direct +pipeline):\n%s", diff)
	}
}

func TestPipeline_PrefilterOrderAndSource(t *testing.T) {
	var order []string
	tag := func(name string) Filter {
		return FilterFunc(func(b *pixel.Buffer) (*pixel.Buffer, error) {
			order = append(order, name)
			return b, nil
		})
	}

	p, err := New(DefaultConfig(), WithPrefilter(tag("a")), WithPrefilter(tag("b")))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := p.Run(uniformBuffer(t, 5, 5, 0)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("prefilter order: got %v", order)
	}
}

func TestPipeline_PrefilterError(t *testing.T) {
	boom := errors.New("boom")
	fail := FilterFunc(func(*pixel.Buffer) (*pixel.Buffer, error) { return nil, boom })

	p, _ := New(DefaultConfig(), WithPrefilter(fail))
	if _, err := p.Run(uniformBuffer(t, 5, 5, 0)); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped boom", err)
	}
}

func TestPipeline_Thin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thin = true

	// keep only the first nonzero magnitude
	thinner := thinFunc(func(_ *pixel.Buffer, mag, _ []float64) ([]float64, error) {
		out := make([]float64, len(mag))
		for i, m := range mag {
			if m != 0 {
				out[i] = m
				break
			}
		}
		return out, nil
	})

	p, err := New(cfg, WithThinner(thinner))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(seamBuffer(t, 10, 6, 5))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Gradient.EdgeCount() != 1 {
		t.Errorf("edges after thinning: got %d, want 1", res.Gradient.EdgeCount())
	}
	for i, d := range res.Gradient.Direction {
		if res.Gradient.Magnitude[i] == 0 && d != 0 {
			t.Fatalf("direction[%d] = %v on a suppressed window", i, d)
		}
	}
}

func TestThinGradient_Errors(t *testing.T) {
	short := thinFunc(func(_ *pixel.Buffer, mag, _ []float64) ([]float64, error) {
		return mag[:len(mag)-1], nil
	})
	gm := &GradientMap{Width: 4, Height: 4, KernelSize: 3, Magnitude: make([]float64, 6), Direction: make([]float64, 6)}

	if _, err := ThinGradient(short, nil, gm); !errors.Is(err, pixel.ErrDimensionMismatch) {
		t.Errorf("short output: got %v, want ErrDimensionMismatch", err)
	}
	if _, err := ThinGradient(short, nil, nil); !errors.Is(err, ErrPreconditionNotMet) {
		t.Errorf("nil map: got %v, want ErrPreconditionNotMet", err)
	}
}

func TestRequireGradient(t *testing.T) {
	if err := RequireGradient(nil); !errors.Is(err, ErrPreconditionNotMet) {
		t.Errorf("nil: got %v", err)
	}
	if err := RequireGradient([]float64{}); !errors.Is(err, ErrPreconditionNotMet) {
		t.Errorf("empty: got %v", err)
	}
	// All-zero maps are still a completed detection pass
	if err := RequireGradient([]float64{0, 0}); err != nil {
		t.Errorf("zero map: got %v, want nil", err)
	}
}

func TestPipeline_ImplementsFilter(t *testing.T) {
	p, _ := New(DefaultConfig())
	var f Filter = p

	out, err := Chain(Grayscale(), f).Apply(seamBuffer(t, 8, 8, 4))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Len() != 64 {
		t.Errorf("output pixels: got %d, want 64", out.Len())
	}
}

func TestPipeline_Logging(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	p, _ := New(DefaultConfig())
	if _, err := p.Run(seamBuffer(t, 8, 8, 4)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(buf.String(), "pipeline finished") {
		t.Errorf("expected debug record, got %q", buf.String())
	}
}

func TestSetLogger_NilIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

type thinFunc func(buf *pixel.Buffer, magnitude, direction []float64) ([]float64, error)

func (f thinFunc) Thin(buf *pixel.Buffer, magnitude, direction []float64) ([]float64, error) {
	return f(buf, magnitude, direction)
}
