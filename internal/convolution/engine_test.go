package convolution

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutputLen(t *testing.T) {
	tests := []struct {
		name           string
		n, width, size int
		want           int
	}{
		{"5x5 with 3x3", 25, 5, 3, 13},
		{"4x4 with 3x3", 16, 4, 3, 6},
		{"exactly one window", 11, 4, 3, 1},
		{"smaller than window", 8, 4, 3, 0},
		{"empty", 0, 4, 3, 0},
		{"zero width", 16, 0, 3, 0},
		{"5x5 kernel", 49, 7, 5, 17},
		{"5x5 kernel on 6x6", 36, 6, 5, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputLen(tt.n, tt.width, tt.size); got != tt.want {
				t.Errorf("OutputLen(%d, %d, %d): got %d, want %d", tt.n, tt.width, tt.size, got, tt.want)
			}
		})
	}
}

func TestConvolve_Length(t *testing.T) {
	k := mustKernel([][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})

	for _, dims := range [][2]int{{3, 3}, {4, 4}, {10, 7}, {2, 2}, {1, 9}, {9, 1}} {
		w, h := dims[0], dims[1]
		channel := make([]float64, w*h)
		got := Convolve(channel, w, k)

		want := w*h - (2*w + 2)
		if want < 0 {
			want = 0
		}
		if len(got) != want {
			t.Errorf("%dx%d: length %d, want %d", w, h, len(got), want)
		}
	}
}

func TestConvolve_LengthLargeKernel(t *testing.T) {
	// 5x5 centre tap picks channel[i + 2*width + 2]
	rows := make([][]int, 5)
	for i := range rows {
		rows[i] = make([]int, 5)
	}
	rows[2][2] = 1
	k := mustKernel(rows)

	channel := make([]float64, 49)
	for i := range channel {
		channel[i] = float64(i)
	}

	got := Convolve(channel, 7, k)
	if len(got) != 17 {
		t.Fatalf("length: got %d, want 17", len(got))
	}
	for i, v := range got {
		if want := float64(i + 2*7 + 2); v != want {
			t.Errorf("window %d: got %v, want %v", i, v, want)
		}
	}

	if got := Convolve(make([]float64, 16), 4, k); len(got) != 0 {
		t.Errorf("4x4 input with 5x5 kernel: length %d, want 0", len(got))
	}
}

func TestConvolve_Identity(t *testing.T) {
	// Centre tap picks channel[i + width + 1]
	k := mustKernel([][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	channel := []float64{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
		12, 13, 14, 15,
	}

	got := Convolve(channel, 4, k)
	want := []float64{5, 6, 7, 8, 9, 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convolve mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolve_WeightedSum(t *testing.T) {
	channel := []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	got := Convolve(channel, 3, pairs[Sobel].X)

	// -1*1 + 1*3 - 2*4 + 2*6 - 1*7 + 1*9
	want := []float64{8}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convolve mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolve_FlatField(t *testing.T) {
	channel := make([]float64, 64)
	for i := range channel {
		channel[i] = 137
	}

	for _, name := range Names() {
		p, _ := Lookup(name)
		for _, k := range []Kernel{p.X, p.Y} {
			for i, v := range Convolve(channel, 8, k) {
				if v != 0 {
					t.Fatalf("%s: out[%d] = %v on flat field, want 0", name, i, v)
				}
			}
		}
	}
}

func TestConvolve_NoNormalization(t *testing.T) {
	k := mustKernel([][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	channel := make([]float64, 9)
	for i := range channel {
		channel[i] = 2
	}

	got := Convolve(channel, 3, k)
	if len(got) != 1 || got[0] != 18 {
		t.Errorf("box sum: got %v, want [18]", got)
	}
}

func TestDirect_ImplementsEngine(t *testing.T) {
	var e Engine = Direct{}
	got := e.Convolve([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, 3, pairs[Sobel].Y)
	// -1 -4 -3 + 7 + 16 + 9
	if len(got) != 1 || got[0] != 24 {
		t.Errorf("Direct.Convolve: got %v, want [24]", got)
	}
}
