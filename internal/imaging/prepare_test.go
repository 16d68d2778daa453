package imaging

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestPrepare_WholeImage(t *testing.T) {
	img := quadrantImage(40, 20)

	out, err := Prepare(img, nil, 0)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if b := out.Bounds(); b != image.Rect(0, 0, 40, 20) {
		t.Errorf("bounds: got %v, want 40x20 at origin", b)
	}
}

func TestPrepare_Region(t *testing.T) {
	img := quadrantImage(100, 100)

	out, err := Prepare(img, &Region{X1: 50, Y1: 50, X2: 100, Y2: 100}, 1.0)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if b := out.Bounds(); b.Min != (image.Point{}) || b.Dx() != 50 || b.Dy() != 50 {
		t.Fatalf("bounds: got %v, want 50x50 at origin", b)
	}

	// Bottom-right quadrant is white
	r, g, b, _ := out.At(10, 10).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel: got (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestPrepare_Scale(t *testing.T) {
	img := solidImage(100, 60, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		name          string
		scale         float64
		width, height int
	}{
		{"up", 2.0, 200, 120},
		{"down", 0.5, 50, 30},
		{"unchanged", 1.0, 100, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Prepare(img, nil, tt.scale)
			if err != nil {
				t.Fatalf("Prepare failed: %v", err)
			}
			if b := out.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("dimensions: got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
		})
	}
}

func TestPrepare_Errors(t *testing.T) {
	img := solidImage(100, 100, color.NRGBA{A: 255})

	tests := []struct {
		name   string
		region *Region
		scale  float64
		want   string
	}{
		{"outside", &Region{0, 0, 150, 50}, 1, "outside image bounds"},
		{"negative", &Region{-10, 0, 50, 50}, 1, "outside image bounds"},
		{"inverted", &Region{50, 50, 10, 10}, 1, "invalid region"},
		{"empty", &Region{10, 10, 10, 40}, 1, "invalid region"},
		{"negative scale", nil, -1, "invalid scale"},
		{"vanishing scale", &Region{0, 0, 2, 2}, 0.1, "reduces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(img, tt.region, tt.scale)
			if err == nil {
				t.Fatal("Prepare should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestPrepare_OffsetBounds(t *testing.T) {
	// Sub-images keep their parent's coordinates; regions are relative.
	parent := quadrantImage(100, 100)
	sub := parent.SubImage(image.Rect(50, 0, 100, 50))

	out, err := Prepare(sub, &Region{X1: 0, Y1: 0, X2: 10, Y2: 10}, 1)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	r, g, _, _ := out.At(0, 0).RGBA()
	if r>>8 != 0 || g>>8 != 255 {
		t.Errorf("pixel: got r=%d g=%d, want green", r>>8, g>>8)
	}
}

func TestNamedRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 101, 51)

	tests := []struct {
		name string
		want Region
	}{
		{"top-left", Region{0, 0, 50, 25}},
		{"top-right", Region{50, 0, 101, 25}},
		{"bottom-left", Region{0, 25, 50, 51}},
		{"bottom-right", Region{50, 25, 101, 51}},
		{"top-half", Region{0, 0, 101, 25}},
		{"bottom-half", Region{0, 25, 101, 51}},
		{"left-half", Region{0, 0, 50, 51}},
		{"right-half", Region{50, 0, 101, 51}},
		{"center", Region{25, 12, 76, 39}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(bounds, tt.name)
			if err != nil {
				t.Fatalf("NamedRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := NamedRegion(bounds, "middle"); err == nil {
		t.Error("NamedRegion should fail for unknown name")
	}
}
