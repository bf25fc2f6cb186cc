package skintile

import (
	"image"
	"image/color"
	"math"
)

// Layout positions the chroma strip inside a tile.
type Layout struct {
	SwatchDiameter int
	SwatchGap      int
	Padding        int
}

// DefaultLayout is used unless WithLayout says otherwise.
var DefaultLayout = Layout{
	SwatchDiameter: 18,
	SwatchGap:      6,
	Padding:        8,
}

// SwatchRect returns the square the i-th swatch is inscribed in. Swatches
// run left to right along the bottom edge of bounds.
func (l Layout) SwatchRect(bounds image.Rectangle, i int) image.Rectangle {
	x := bounds.Min.X + l.Padding + i*(l.SwatchDiameter+l.SwatchGap)
	y := bounds.Max.Y - l.Padding - l.SwatchDiameter
	return image.Rect(x, y, x+l.SwatchDiameter, y+l.SwatchDiameter)
}

// StripRect returns the area covered by n swatches.
func (l Layout) StripRect(bounds image.Rectangle, n int) image.Rectangle {
	if n == 0 {
		return image.Rectangle{}
	}
	return l.SwatchRect(bounds, 0).Union(l.SwatchRect(bounds, n-1))
}

// frect is a rectangle in fractional pixels, used once animation scales
// have been applied.
type frect struct {
	x, y, w, h float64
}

func (r frect) rect() image.Rectangle {
	return image.Rect(int(math.Floor(r.x)), int(math.Floor(r.y)),
		int(math.Ceil(r.x+r.w)), int(math.Ceil(r.y+r.h)))
}

// contains tests the centre of the pixel at pt.
func (r frect) contains(pt image.Point) bool {
	px, py := float64(pt.X)+0.5, float64(pt.Y)+0.5
	return px >= r.x && px < r.x+r.w && py >= r.y && py < r.y+r.h
}

// scaleAbout scales r around its centre.
func scaleAbout(r image.Rectangle, s float64) frect {
	w, h := float64(r.Dx())*s, float64(r.Dy())*s
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	return frect{x: cx - w/2, y: cy - h/2, w: w, h: h}
}

// bisectedSwatch renders a circle of the given diameter split along the
// anti-diagonal: primary fills the top-left half, secondary the
// bottom-right half. Edges are antialiased over one pixel.
func bisectedSwatch(diameter int, primary, secondary color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, diameter, diameter))
	r := float64(diameter) / 2
	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			d := math.Hypot(fx-r, fy-r)
			coverage := math.Min(1, math.Max(0, r-d+0.5))
			if coverage == 0 {
				continue
			}
			c := secondary
			if fx+fy < float64(diameter) {
				c = primary
			}
			c.A = uint8(float64(c.A) * coverage)
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
