package skintile

import (
	"image"
	"testing"
)

var testBounds = image.Rect(0, 0, 200, 100)

// flatGeometry places a tile at testBounds with no animation scaling.
func flatGeometry() tileGeometry {
	return tileGeometry{bounds: testBounds, layout: DefaultLayout}
}

func swatchCenter(i int) image.Point {
	r := DefaultLayout.SwatchRect(testBounds, i)
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}

func TestRouterStopsAtConsumingSurface(t *testing.T) {
	var order []string
	var r InteractionRouter
	r.Add(func(image.Point) bool { return true }, func() bool { order = append(order, "inner"); return true })
	r.Add(func(image.Point) bool { return true }, func() bool { order = append(order, "outer"); return true })

	if !r.Dispatch(image.Pt(1, 1)) {
		t.Fatal("Dispatch() = false, want true")
	}
	if len(order) != 1 || order[0] != "inner" {
		t.Errorf("activation order = %v, want [inner]", order)
	}
}

func TestRouterBubblesWhenNotConsumed(t *testing.T) {
	var order []string
	var r InteractionRouter
	r.Add(func(image.Point) bool { return true }, func() bool { order = append(order, "inner"); return false })
	r.Add(func(image.Point) bool { return true }, func() bool { order = append(order, "outer"); return true })

	r.Dispatch(image.Pt(1, 1))
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("activation order = %v, want [inner outer]", order)
	}
}

func TestRouteTile(t *testing.T) {
	chromas := []ChromaOption{
		{ID: 1, Colors: []string{"#fff", "#000"}},
		{ID: 2, Colors: []string{"#000", "#fff"}},
	}

	tests := []struct {
		name        string
		loading     bool
		at          image.Point
		wantSkins   int
		wantChromas [][2]int64
	}{
		{name: "body", at: image.Pt(150, 20), wantSkins: 1},
		{name: "first swatch", at: swatchCenter(0), wantChromas: [][2]int64{{7, 1}}},
		{name: "second swatch", at: swatchCenter(1), wantChromas: [][2]int64{{7, 2}}},
		{name: "gap between swatches hits body", at: image.Pt(DefaultLayout.SwatchRect(testBounds, 0).Max.X+2, swatchCenter(0).Y), wantSkins: 1},
		{name: "outside the tile", at: image.Pt(250, 20)},
		{name: "body while loading", loading: true, at: image.Pt(150, 20), wantSkins: 1},
		{name: "swatch area while loading hits body", loading: true, at: swatchCenter(0), wantSkins: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log clickLog
			p := Props{
				SkinID:        7,
				Chromas:       chromas,
				OnSkinClick:   log.onSkin,
				OnChromaClick: log.onChroma,
			}
			var r InteractionRouter
			routeTile(&r, p, Present(tt.loading, p), flatGeometry())
			r.Dispatch(tt.at)

			if len(log.skins) != tt.wantSkins {
				t.Errorf("OnSkinClick called %d times, want %d", len(log.skins), tt.wantSkins)
			}
			for _, id := range log.skins {
				if id != 7 {
					t.Errorf("OnSkinClick(%d), want 7", id)
				}
			}
			if len(log.chromas) != len(tt.wantChromas) {
				t.Fatalf("OnChromaClick calls = %v, want %v", log.chromas, tt.wantChromas)
			}
			for i := range tt.wantChromas {
				if log.chromas[i] != tt.wantChromas[i] {
					t.Errorf("OnChromaClick call %d = %v, want %v", i, log.chromas[i], tt.wantChromas[i])
				}
			}
		})
	}
}

func TestRouteTileNilCallbacks(t *testing.T) {
	p := Props{SkinID: 1, Chromas: []ChromaOption{{ID: 1}}}
	var r InteractionRouter
	routeTile(&r, p, Present(false, p), flatGeometry())

	if !r.Dispatch(swatchCenter(0)) {
		t.Error("swatch activation not handled")
	}
	if !r.Dispatch(image.Pt(100, 10)) {
		t.Error("body activation not handled")
	}
}

func TestInCircle(t *testing.T) {
	area := scaleAbout(image.Rect(10, 10, 30, 30), 1)
	tests := []struct {
		pt   image.Point
		want bool
	}{
		{image.Pt(20, 20), true},
		{image.Pt(10, 20), true},
		{image.Pt(10, 10), false},
		{image.Pt(29, 29), false},
		{image.Pt(31, 20), false},
	}
	for _, tt := range tests {
		if got := inCircle(tt.pt, area); got != tt.want {
			t.Errorf("inCircle(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
}

func TestRouteTileFollowsScale(t *testing.T) {
	chromas := []ChromaOption{{ID: 1}, {ID: 2}}
	// Just outside the unscaled swatch circle, inside it at 1.3x.
	rim := swatchCenter(0).Add(image.Pt(10, 0))
	// Just left of the tile, inside it at 1.05x.
	edge := image.Pt(-3, 50)

	tests := []struct {
		name        string
		tileScale   float64
		swatchScale float64
		at          image.Point
		wantSkins   int
		wantChromas int
	}{
		{"swatch rim unscaled hits body", 1, 1, rim, 1, 0},
		{"swatch rim while enlarged", 1, swatchSelectScale, rim, 0, 1},
		{"outside unscaled tile", 1, 1, edge, 0, 0},
		{"edge of enlarged tile", tileHoverScale, 1, edge, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log clickLog
			p := Props{SkinID: 7, Chromas: chromas, OnSkinClick: log.onSkin, OnChromaClick: log.onChroma}
			g := flatGeometry()
			g.scale = tt.tileScale
			g.swatchScale = func(id ChromaID) float64 {
				if id == 1 {
					return tt.swatchScale
				}
				return 1
			}

			var r InteractionRouter
			routeTile(&r, p, Present(false, p), g)
			r.Dispatch(tt.at)

			if len(log.skins) != tt.wantSkins || len(log.chromas) != tt.wantChromas {
				t.Errorf("skin clicks = %v, chroma clicks = %v; want %d and %d",
					log.skins, log.chromas, tt.wantSkins, tt.wantChromas)
			}
		})
	}
}
