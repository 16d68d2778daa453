package convolution

// Engine convolves a kernel over a single scalar channel.
type Engine interface {
	Convolve(channel []float64, width int, k Kernel) []float64
}

// Direct is the straightforward nested-loop Engine.
type Direct struct{}

// Convolve implements Engine.
func (Direct) Convolve(channel []float64, width int, k Kernel) []float64 {
	return Convolve(channel, width, k)
}

// OutputLen returns the number of windows a truncated convolution computes
// over n values laid out width wide with a size×size kernel. It never
// returns a negative number.
func OutputLen(n, width, size int) int {
	if width <= 0 || size <= 0 {
		return 0
	}
	l := n - ((size-1)*width + (size - 1))
	if l < 0 {
		return 0
	}
	return l
}

// Convolve slides k over channel, treating it as a grid width values wide.
//
// Output entry i is the weighted sum of the window anchored (top-left) at
// flat index i:
//
//	out[i] = Σ k[a][b] * channel[i + a*width + b]
//
// Windows are enumerated by flat index, so the result is shorter than the
// input by (size-1)*width + (size-1) entries. Nothing is padded, clamped or
// normalized; callers that need a full-size result re-pad it themselves.
func Convolve(channel []float64, width int, k Kernel) []float64 {
	size := k.Size()
	out := make([]float64, OutputLen(len(channel), width, size))

	for i := range out {
		var sum float64
		for a := 0; a < size; a++ {
			row := i + a*width
			for b := 0; b < size; b++ {
				sum += float64(k.weights[a*size+b]) * channel[row+b]
			}
		}
		out[i] = sum
	}
	return out
}
