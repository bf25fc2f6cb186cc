package skintile

import "image"

// surface is one clickable region of a tile.
type surface struct {
	hit func(image.Point) bool
	// activate runs the surface's handler and reports whether the event
	// is consumed.
	activate func() (stop bool)
}

// InteractionRouter hands an activation to the innermost surface under the
// pointer, then to the enclosing ones until a handler consumes it.
type InteractionRouter struct {
	surfaces []surface // innermost first
}

// Reset drops every surface. Surfaces are rebuilt each frame from the
// current presentation.
func (r *InteractionRouter) Reset() {
	r.surfaces = r.surfaces[:0]
}

// Add appends a surface enclosing all surfaces added before it.
func (r *InteractionRouter) Add(hit func(image.Point) bool, activate func() bool) {
	r.surfaces = append(r.surfaces, surface{hit: hit, activate: activate})
}

// Dispatch routes one activation at pt. It reports whether any surface
// handled it.
func (r *InteractionRouter) Dispatch(pt image.Point) bool {
	handled := false
	for _, s := range r.surfaces {
		if !s.hit(pt) {
			continue
		}
		handled = true
		if s.activate() {
			break
		}
	}
	return handled
}

// tileGeometry is where a tile and its swatches appear, scaled by their
// current animations. Hit testing and drawing both go through it.
type tileGeometry struct {
	bounds      image.Rectangle
	layout      Layout
	scale       float64                // tile body; zero means 1
	swatchScale func(ChromaID) float64 // nil means 1
}

func (g tileGeometry) body() frect {
	s := g.scale
	if s == 0 {
		s = 1
	}
	return scaleAbout(g.bounds, s)
}

func (g tileGeometry) swatch(i int, id ChromaID) frect {
	s := 1.0
	if g.swatchScale != nil {
		s = g.swatchScale(id)
	}
	return scaleAbout(g.layout.SwatchRect(g.bounds, i), s)
}

// routeTile rebuilds the router for a tile: one surface per visible swatch,
// then the tile body. Swatches consume their events.
func routeTile(r *InteractionRouter, p Props, pr Presentation, g tileGeometry) {
	r.Reset()
	if pr.ChromaStrip {
		for i, sw := range pr.Swatches {
			area := g.swatch(i, sw.ID)
			id := sw.ID
			r.Add(
				func(pt image.Point) bool { return inCircle(pt, area) },
				func() bool {
					if p.OnChromaClick != nil {
						p.OnChromaClick(p.SkinID, id)
					}
					return true
				},
			)
		}
	}
	body := g.body()
	r.Add(
		body.contains,
		func() bool {
			if p.OnSkinClick != nil {
				p.OnSkinClick(p.SkinID)
			}
			return true
		},
	)
}

// inCircle reports whether the pixel at pt lies in the circle inscribed
// in area.
func inCircle(pt image.Point, area frect) bool {
	radius := area.w / 2
	dx := float64(pt.X) + 0.5 - (area.x + radius)
	dy := float64(pt.Y) + 0.5 - (area.y + radius)
	return dx*dx+dy*dy <= radius*radius
}
