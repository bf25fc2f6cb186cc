package skintile

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	skeletonColor = color.NRGBA{R: 0x2a, G: 0x2f, B: 0x3a, A: 0xff}
	borderColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 26}
)

type swatchKey struct {
	diameter           int
	primary, secondary color.NRGBA
}

// Draw renders the tile onto dst. offset is subtracted from the tile's
// content coordinates, typically the gallery's scroll offset.
func (t *Tile) Draw(dst *ebiten.Image, offset image.Point) {
	if t.closed || t.bounds.Empty() {
		return
	}
	screenBounds := t.bounds.Sub(offset)
	if !screenBounds.Overlaps(dst.Bounds()) {
		return
	}

	pr := t.Presentation()
	geom := t.geometry()
	geom.bounds = screenBounds
	area := geom.body()

	if !pr.ShowBackground {
		t.drawPlaceholder(dst, area)
		return
	}

	clip, ok := dst.SubImage(area.rect()).(*ebiten.Image)
	if !ok {
		return
	}
	// Bottom to top: background, dim overlay, chroma strip.
	t.drawBackground(clip, area)

	if a := t.dim.value * dimOverlayAlpha; a > 0 {
		vector.DrawFilledRect(clip, float32(area.x), float32(area.y), float32(area.w), float32(area.h),
			color.NRGBA{A: uint8(255 * a)}, false)
	}

	if pr.ChromaStrip {
		t.drawStrip(dst, pr, geom)
	}

	vector.StrokeRect(dst, float32(area.x), float32(area.y), float32(area.w), float32(area.h), 1, borderColor, true)
}

func (t *Tile) drawPlaceholder(dst *ebiten.Image, area frect) {
	// Slow pulse so a pending tile reads as "loading".
	phase := math.Sin(t.elapsed.Seconds() * math.Pi)
	c := skeletonColor
	c.A = uint8(200 + 40*phase)
	vector.DrawFilledRect(dst, float32(area.x), float32(area.y), float32(area.w), float32(area.h), c, false)
}

func (t *Tile) drawBackground(dst *ebiten.Image, area frect) {
	src := t.preloader.Image()
	if src == nil {
		return
	}
	if t.background == nil || t.backgroundSrc != src {
		t.releaseBackground()
		t.background = ebiten.NewImageFromImage(src)
		t.backgroundSrc = src
	}

	b := t.background.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	// Width is 120% of the tile, height keeps the aspect ratio.
	scale := backgroundOversize * area.w / float64(b.Dx())
	w, h := float64(b.Dx())*scale, float64(b.Dy())*scale

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(area.x+(area.w-w)*t.pan.value, area.y+(area.h-h)*0.5)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(t.background, op)
}

func (t *Tile) drawStrip(dst *ebiten.Image, pr Presentation, geom tileGeometry) {
	alpha := float32(t.strip.value)
	if alpha <= 0 {
		return
	}
	d := t.layout.SwatchDiameter
	for i, sw := range pr.Swatches {
		overlay := 0.0
		if a, ok := t.swatches[sw.ID]; ok {
			overlay = a.overlay.value
		}
		area := geom.swatch(i, sw.ID)
		scale := area.w / float64(d)

		img := t.swatchImage(swatchKey{diameter: d, primary: sw.Primary, secondary: sw.Secondary})
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(area.x, area.y)
		op.ColorScale.ScaleAlpha(alpha)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(img, op)

		if overlay > 0 {
			r := float32(area.w / 2)
			vector.DrawFilledCircle(dst, float32(area.x)+r, float32(area.y)+r, r,
				color.NRGBA{A: uint8(255 * swatchOverlayAlpha * overlay * float64(alpha))}, true)
		}
	}
}

func (t *Tile) swatchImage(k swatchKey) *ebiten.Image {
	if img, ok := t.swatchImages[k]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(bisectedSwatch(k.diameter, k.primary, k.secondary))
	t.swatchImages[k] = img
	return img
}
