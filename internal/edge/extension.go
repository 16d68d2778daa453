package edge

import (
	"image"

	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// Thinner refines a magnitude map, typically by non-maximum suppression
// along the gradient direction. The returned slice has the same length as
// magnitude.
type Thinner interface {
	Thin(buf *pixel.Buffer, magnitude, direction []float64) ([]float64, error)
}

// LineTransform extracts straight lines from a magnitude map.
type LineTransform interface {
	Transform(buf *pixel.Buffer, magnitude []float64) ([]Line, error)
}

// Line is a detected straight line in Hesse normal form together with the
// extent of the pixels supporting it.
type Line struct {
	// Rho is the signed distance from the image origin in pixels.
	Rho float64 `json:"rho"`

	// ThetaDegrees is the angle of the line normal, in [0, 180).
	ThetaDegrees float64 `json:"theta_degrees"`

	// Votes is the number of edge pixels on the line.
	Votes int `json:"votes"`

	Start image.Point `json:"start"`
	End   image.Point `json:"end"`
}

// RequireGradient returns ErrPreconditionNotMet unless magnitude holds at
// least one entry. Thinner and LineTransform implementations call it first.
func RequireGradient(magnitude []float64) error {
	if len(magnitude) == 0 {
		return ErrPreconditionNotMet
	}
	return nil
}
