package imaging

import (
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/edge-detect-mcp/internal/edge"
)

// AnnotateLines returns a copy of img with each line segment drawn in c.
// When label is set, the vote count is written next to each segment start.
func AnnotateLines(img image.Image, lines []edge.Line, c color.NRGBA, label bool) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	for _, l := range lines {
		segment(dst, l.Start, l.End, c)
	}

	if label {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
		}
		for _, l := range lines {
			d.Dot = labelOrigin(dst.Bounds(), l.Start, strconv.Itoa(l.Votes), d)
			d.DrawString(strconv.Itoa(l.Votes))
		}
	}

	return dst
}

// labelOrigin places text just right of p, kept inside bounds.
func labelOrigin(bounds image.Rectangle, p image.Point, text string, d *font.Drawer) fixed.Point26_6 {
	width := d.MeasureString(text).Ceil()
	metrics := d.Face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()

	x := p.X + 2
	if x+width > bounds.Max.X {
		x = bounds.Max.X - width
	}
	if x < 0 {
		x = 0
	}
	y := p.Y + ascent
	if y-ascent+height > bounds.Max.Y {
		y = bounds.Max.Y - height + ascent
	}
	if y < ascent {
		y = ascent
	}
	return fixed.P(x, y)
}

// segment draws from a to b with Bresenham's algorithm. Points outside dst
// are clipped by Set.
func segment(dst *image.NRGBA, a, b image.Point, c color.NRGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	x, y := a.X, a.Y
	for {
		dst.SetNRGBA(x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
