// Package convolution implements truncated sliding-window convolution of
// square integer kernels over a single scalar channel, together with the
// registry of named gradient operators.
package convolution

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownKernel is returned when a kernel or operator name is not registered.
	ErrUnknownKernel = errors.New("unknown kernel")

	// ErrInvalidKernel is returned when a matrix is not square with an odd side >= 3.
	ErrInvalidKernel = errors.New("invalid kernel")
)

// Kernel is an immutable square matrix of signed integer weights.
type Kernel struct {
	size    int
	weights []int
}

// NewKernel builds a Kernel from rows. The matrix must be square with an odd
// side length of at least 3.
func NewKernel(rows [][]int) (Kernel, error) {
	n := len(rows)
	if n < 3 || n%2 == 0 {
		return Kernel{}, fmt.Errorf("%w: side length %d", ErrInvalidKernel, n)
	}
	w := make([]int, 0, n*n)
	for i, r := range rows {
		if len(r) != n {
			return Kernel{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidKernel, i, len(r), n)
		}
		w = append(w, r...)
	}
	return Kernel{size: n, weights: w}, nil
}

func mustKernel(rows [][]int) Kernel {
	k, err := NewKernel(rows)
	if err != nil {
		panic(err)
	}
	return k
}

// Size returns the side length.
func (k Kernel) Size() int { return k.size }

// At returns the weight at row a, column b.
func (k Kernel) At(a, b int) int { return k.weights[a*k.size+b] }

// Rows returns a copy of the weights as a row-major matrix.
func (k Kernel) Rows() [][]int {
	rows := make([][]int, k.size)
	for a := range rows {
		rows[a] = append([]int(nil), k.weights[a*k.size:(a+1)*k.size]...)
	}
	return rows
}

// Operator is the closed set of registered gradient operators.
type Operator int

const (
	Sobel Operator = iota
	Prewitt
	Scharr
)

// DefaultOperator is the operator used when no kernel is configured.
const DefaultOperator = "sobel"

// Pair is a horizontal/vertical kernel pair for one operator.
type Pair struct {
	Name string
	X, Y Kernel
}

var operators = map[string]Operator{
	"sobel":   Sobel,
	"prewitt": Prewitt,
	"scharr":  Scharr,
}

var pairs = map[Operator]Pair{
	Sobel: {
		Name: "sobel",
		X: mustKernel([][]int{
			{-1, 0, 1},
			{-2, 0, 2},
			{-1, 0, 1},
		}),
		Y: mustKernel([][]int{
			{-1, -2, -1},
			{0, 0, 0},
			{1, 2, 1},
		}),
	},
	Prewitt: {
		Name: "prewitt",
		X: mustKernel([][]int{
			{-1, 0, 1},
			{-1, 0, 1},
			{-1, 0, 1},
		}),
		Y: mustKernel([][]int{
			{-1, -1, -1},
			{0, 0, 0},
			{1, 1, 1},
		}),
	},
	Scharr: {
		Name: "scharr",
		X: mustKernel([][]int{
			{-3, 0, 3},
			{-10, 0, 10},
			{-3, 0, 3},
		}),
		Y: mustKernel([][]int{
			{-3, -10, -3},
			{0, 0, 0},
			{3, 10, 3},
		}),
	},
}

// String returns the registered name of the operator.
func (o Operator) String() string {
	if p, ok := pairs[o]; ok {
		return p.Name
	}
	return fmt.Sprintf("operator(%d)", int(o))
}

// Lookup resolves an operator name such as "sobel" to its kernel pair.
func Lookup(name string) (Pair, error) {
	op, ok := operators[name]
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
	return pairs[op], nil
}

// LookupKernel resolves a single component name of the form
// "<operator>.x" or "<operator>.y".
func LookupKernel(name string) (Kernel, error) {
	op, axis, ok := strings.Cut(name, ".")
	if !ok {
		return Kernel{}, fmt.Errorf("%w: %q (want <operator>.x or <operator>.y)", ErrUnknownKernel, name)
	}
	p, err := Lookup(op)
	if err != nil {
		return Kernel{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
	switch axis {
	case "x":
		return p.X, nil
	case "y":
		return p.Y, nil
	default:
		return Kernel{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
}

// Names returns the registered operator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(operators))
	for n := range operators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
