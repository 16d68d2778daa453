package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in image coordinates; (X1,Y1) inclusive, (X2,Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// NamedRegion resolves a quadrant or half name against bounds.
//
// Supported names: top-left, top-right, bottom-left, bottom-right,
// top-half, bottom-half, left-half, right-half, center.
func NamedRegion(bounds image.Rectangle, name string) (Region, error) {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2

	var r Region
	switch name {
	case "top-left":
		r = Region{0, 0, midX, midY}
	case "top-right":
		r = Region{midX, 0, w, midY}
	case "bottom-left":
		r = Region{0, midY, midX, h}
	case "bottom-right":
		r = Region{midX, midY, w, h}
	case "top-half":
		r = Region{0, 0, w, midY}
	case "bottom-half":
		r = Region{0, midY, w, h}
	case "left-half":
		r = Region{0, 0, midX, h}
	case "right-half":
		r = Region{midX, 0, w, h}
	case "center":
		// Center 50% of the image
		r = Region{w / 4, h / 4, w - w/4, h - h/4}
	default:
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}
	return r, nil
}

// Prepare crops img to region (nil means the whole image) and rescales the
// result by scale. A scale of 0 or 1 leaves the size unchanged. The returned
// image always has its origin at (0,0).
func Prepare(img image.Image, region *Region, scale float64) (image.Image, error) {
	if scale < 0 {
		return nil, fmt.Errorf("invalid scale %v: must be positive", scale)
	}

	bounds := img.Bounds()
	rect := bounds
	if region != nil {
		rect = region.Rect().Add(bounds.Min)
		if !rect.In(bounds) {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
				region.X1, region.Y1, region.X2, region.Y2, bounds.Dx(), bounds.Dy())
		}
		if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
	}

	var out image.Image = imaging.Crop(img, rect)

	if scale != 0 && scale != 1.0 {
		newWidth := int(float64(rect.Dx()) * scale)
		newHeight := int(float64(rect.Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %v reduces %dx%d to nothing", scale, rect.Dx(), rect.Dy())
		}
		out = imaging.Resize(out, newWidth, newHeight, imaging.Lanczos)
	}

	return out, nil
}
