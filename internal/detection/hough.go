package detection

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/edge-detect-mcp/internal/edge"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

const (
	// DefaultMinVotes is used when HoughTransform.MinVotes is not positive.
	DefaultMinVotes = 10

	// DefaultMaxLines is used when HoughTransform.MaxLines is not positive.
	DefaultMaxLines = 50

	numAngles = 180
)

// HoughTransform finds straight lines through the nonzero windows of a
// magnitude map using the standard (rho, theta) Hough accumulator at 1°
// resolution.
type HoughTransform struct {
	// MinVotes is the minimum number of edge pixels a line must pass through.
	MinVotes int

	// MaxLines caps the number of returned lines.
	MaxLines int
}

var _ edge.LineTransform = HoughTransform{}

// Transform implements edge.LineTransform.
//
// Each nonzero window votes at its centre pixel. The kernel size is
// recovered from how much shorter magnitude is than the image. Lines are
// returned strongest first.
func (h HoughTransform) Transform(buf *pixel.Buffer, magnitude []float64) ([]edge.Line, error) {
	if err := edge.RequireGradient(magnitude); err != nil {
		return nil, err
	}
	if buf == nil || buf.Width() == 0 {
		return nil, fmt.Errorf("%w: no source buffer", pixel.ErrDimensionMismatch)
	}
	width, height := buf.Width(), buf.Height()
	size, ok := edge.KernelSizeFor(buf.Len(), width, len(magnitude))
	if !ok {
		return nil, fmt.Errorf("%w: %d windows do not fit a %dx%d image",
			pixel.ErrDimensionMismatch, len(magnitude), width, height)
	}

	minVotes := h.MinVotes
	if minVotes <= 0 {
		minVotes = DefaultMinVotes
	}
	maxLines := h.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	points := make([]image.Point, 0)
	for i, m := range magnitude {
		if m == 0 {
			continue
		}
		points = append(points, edge.WindowCenter(i, width, size))
	}

	cosT, sinT := trigTables()

	// Vote in Hough space
	maxDist := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	accumulator := make([][]int, maxDist*2+1)
	for r := range accumulator {
		accumulator[r] = make([]int, numAngles)
	}
	for _, p := range points {
		for theta := 0; theta < numAngles; theta++ {
			rho := float64(p.X)*cosT[theta] + float64(p.Y)*sinT[theta]
			accumulator[int(math.Round(rho))+maxDist][theta]++
		}
	}

	type peak struct {
		rho, theta, votes int
	}
	peaks := make([]peak, 0)

	for r := range accumulator {
		for theta := 0; theta < numAngles; theta++ {
			votes := accumulator[r][theta]
			if votes < minVotes || !isLocalMax(accumulator, r, theta) {
				continue
			}
			peaks = append(peaks, peak{rho: r - maxDist, theta: theta, votes: votes})
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})
	if len(peaks) > maxLines {
		peaks = peaks[:maxLines]
	}

	lines := make([]edge.Line, 0, len(peaks))
	for _, pk := range peaks {
		start, end := segmentExtent(points, float64(pk.rho), cosT[pk.theta], sinT[pk.theta])
		lines = append(lines, edge.Line{
			Rho:          float64(pk.rho),
			ThetaDegrees: float64(pk.theta),
			Votes:        pk.votes,
			Start:        start,
			End:          end,
		})
	}

	edge.Logger().Debug("hough transform",
		"points", len(points),
		"peaks", len(peaks),
		"min_votes", minVotes)

	return lines, nil
}

func trigTables() (cosT, sinT []float64) {
	cosT = make([]float64, numAngles)
	sinT = make([]float64, numAngles)
	for theta := range cosT {
		a := float64(theta) * math.Pi / 180.0
		cosT[theta] = math.Cos(a)
		sinT[theta] = math.Sin(a)
	}
	return cosT, sinT
}

// isLocalMax reports whether no cell within ±2 of (r, theta) has more votes.
func isLocalMax(acc [][]int, r, theta int) bool {
	v := acc[r][theta]
	for dr := -2; dr <= 2; dr++ {
		for dt := -2; dt <= 2; dt++ {
			nr, nt := r+dr, theta+dt
			if nr < 0 || nr >= len(acc) || nt < 0 || nt >= numAngles {
				continue
			}
			if acc[nr][nt] > v {
				return false
			}
		}
	}
	return true
}

// segmentExtent returns the two supporting points furthest apart along the
// line x*cos + y*sin = rho. Points within 2 pixels of the line count.
func segmentExtent(points []image.Point, rho, cosA, sinA float64) (start, end image.Point) {
	minT, maxT := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		x, y := float64(p.X), float64(p.Y)
		if math.Abs(x*cosA+y*sinA-rho) >= 2.0 {
			continue
		}
		// position along the line direction (-sin, cos)
		t := -x*sinA + y*cosA
		if t < minT {
			minT, start = t, p
		}
		if t > maxT {
			maxT, end = t, p
		}
	}
	return start, end
}
