package skintile

import (
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hashicorp/go-hclog"
)

var defaultLoader = sync.OnceValue(func() *Loader {
	return NewLoader(LoaderOptions{})
})

// Option configures a Tile.
type Option func(*Tile)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(t *Tile) {
		t.logger = logger
	}
}

// WithFetcher replaces the package-wide Loader.
func WithFetcher(f Fetcher) Option {
	return func(t *Tile) {
		t.fetcher = f
	}
}

// WithScroller sets the target of scroll-into-view requests.
func WithScroller(s Scroller) Option {
	return func(t *Tile) {
		t.scroller = s
	}
}

// WithFrameDuration sets how much animation time one Update advances.
func WithFrameDuration(d time.Duration) Option {
	return func(t *Tile) {
		t.frame = d
	}
}

// WithLayout overrides DefaultLayout.
func WithLayout(l Layout) Option {
	return func(t *Tile) {
		t.layout = l
	}
}

type swatchAnim struct {
	scale   tween
	overlay tween
}

// Tile is a selectable skin with its chroma swatches. All methods must be
// called from the game goroutine.
type Tile struct {
	skinID SkinID
	props  Props
	bounds image.Rectangle
	layout Layout

	fetcher   Fetcher
	preloader *Preloader
	scroll    ScrollSynchronizer
	scroller  Scroller
	router    InteractionRouter
	logger    hclog.Logger
	frame     time.Duration

	state         State
	hovered       bool
	hoveredSwatch int

	hover    tween
	pan      tween
	dim      tween
	strip    tween
	swatches map[ChromaID]*swatchAnim
	elapsed  time.Duration

	background    *ebiten.Image
	backgroundSrc image.Image
	swatchImages  map[swatchKey]*ebiten.Image

	closed bool
}

// New creates a tile and starts loading its background image.
func New(p Props, opts ...Option) *Tile {
	t := &Tile{
		skinID:        p.SkinID,
		props:         p,
		layout:        DefaultLayout,
		frame:         time.Second / ebiten.DefaultTPS,
		hoveredSwatch: -1,
		hover:         newTween(1, tileHoverScale-1, hoverScaleDuration),
		pan:           newTween(0.5, tileHoverPan-0.5, hoverScaleDuration),
		dim:           newTween(0, 1, dimFadeDuration),
		strip:         newTween(0, 1, stripFadeDuration),
		swatches:      make(map[ChromaID]*swatchAnim),
		swatchImages:  make(map[swatchKey]*ebiten.Image),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = hclog.NewNullLogger()
	}
	t.logger = t.logger.With("skin", t.skinID)
	if t.fetcher == nil {
		t.fetcher = defaultLoader()
	}

	t.preloader = NewPreloader(t.fetcher, t.logger)
	t.preloader.Begin(p.BackgroundImage)
	return t
}

// SkinID returns the id the tile was created with.
func (t *Tile) SkinID() SkinID {
	return t.skinID
}

// Props returns the latest props.
func (t *Tile) Props() Props {
	return t.props
}

// SetProps replaces the props. A new background image puts the tile back
// into its placeholder state until that image has loaded.
func (t *Tile) SetProps(p Props) {
	if p.SkinID != t.skinID {
		t.logger.Warn("ignoring skin id change", "requested", p.SkinID)
		p.SkinID = t.skinID
	}
	t.props = p
	if p.BackgroundImage != t.preloader.URL() {
		t.preloader.Begin(p.BackgroundImage)
		t.resetLoaded()
	}
}

// SetBounds places the tile. Bounds are in content coordinates, the same
// space as Input positions.
func (t *Tile) SetBounds(r image.Rectangle) {
	t.bounds = r
}

// Bounds returns the tile's rectangle.
func (t *Tile) Bounds() image.Rectangle {
	return t.bounds
}

// Loading reports whether the background image is still pending.
func (t *Tile) Loading() bool {
	return t.preloader.Loading()
}

// Presentation derives the current presentation from the latest props.
func (t *Tile) Presentation() Presentation {
	return Present(t.preloader.Loading(), t.props)
}

// State returns the tile's visible state.
func (t *Tile) State() State {
	return t.Presentation().State
}

// Update advances the tile by one tick: it applies finished image loads,
// issues a scroll request when the tile becomes selected, routes pointer
// activations and steps animations.
func (t *Tile) Update(in Input) {
	if t.closed {
		return
	}
	t.preloader.Poll()

	pr := t.Presentation()
	if pr.State != t.state {
		t.logger.Trace("state changed", "from", t.state, "to", pr.State)
		t.state = pr.State
	}

	if t.scroll.Observe(t.props.Selected) {
		if t.scroller != nil {
			t.scroller.ScrollIntoView(t.bounds, selectedScroll)
		}
	}

	p := t.props
	p.SkinID = t.skinID
	routeTile(&t.router, p, pr, t.geometry())
	for _, pt := range in.Activations {
		t.router.Dispatch(pt)
	}

	t.updateHover(in, pr)
	t.animate(pr)
}

// geometry returns the tile's hit and draw areas as of the last animation
// step.
func (t *Tile) geometry() tileGeometry {
	return tileGeometry{
		bounds:      t.bounds,
		layout:      t.layout,
		scale:       t.hover.value,
		swatchScale: t.swatchScale,
	}
}

func (t *Tile) swatchScale(id ChromaID) float64 {
	if a, ok := t.swatches[id]; ok {
		return a.scale.value
	}
	return 1
}

func (t *Tile) updateHover(in Input, pr Presentation) {
	g := t.geometry()
	t.hovered = in.CursorValid && g.body().contains(in.Cursor)
	t.hoveredSwatch = -1
	if !t.hovered || !pr.ChromaStrip {
		return
	}
	for i, sw := range pr.Swatches {
		if inCircle(in.Cursor, g.swatch(i, sw.ID)) {
			t.hoveredSwatch = i
			return
		}
	}
}

func (t *Tile) animate(pr Presentation) {
	t.elapsed += t.frame

	if t.hovered {
		t.hover.set(tileHoverScale)
		t.pan.set(tileHoverPan)
	} else {
		t.hover.set(1)
		t.pan.set(0.5)
	}
	t.dim.set(boolToFloat(pr.DimOverlay))
	t.strip.set(boolToFloat(pr.ChromaStrip))

	live := make(map[ChromaID]bool, len(pr.Swatches))
	for i, sw := range pr.Swatches {
		live[sw.ID] = true
		a, ok := t.swatches[sw.ID]
		if !ok {
			a = &swatchAnim{
				scale:   newTween(1, swatchHoverScale-1, swatchSelectDuration),
				overlay: newTween(0, 1, swatchOverlayFade),
			}
			t.swatches[sw.ID] = a
		}
		switch {
		case i == t.hoveredSwatch:
			a.scale.duration = swatchHoverDuration
			a.scale.set(swatchHoverScale)
		case sw.Selected:
			a.scale.duration = swatchSelectDuration
			a.scale.set(swatchSelectScale)
		default:
			a.scale.duration = swatchSelectDuration
			a.scale.set(1)
		}
		a.overlay.set(boolToFloat(sw.Selected))
	}
	for id := range t.swatches {
		if !live[id] {
			delete(t.swatches, id)
		}
	}

	for _, tw := range []*tween{&t.hover, &t.pan, &t.dim, &t.strip} {
		tw.step(t.frame)
	}
	for _, a := range t.swatches {
		a.scale.step(t.frame)
		a.overlay.step(t.frame)
	}
}

// resetLoaded drops everything that belonged to the previous image.
func (t *Tile) resetLoaded() {
	t.dim.snap(0)
	t.strip.snap(0)
	clear(t.swatches)
	t.releaseBackground()
}

// Close abandons any pending image load and releases GPU images. The tile
// must not be used afterwards.
func (t *Tile) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.preloader.Close()
	t.releaseBackground()
	for k, img := range t.swatchImages {
		img.Deallocate()
		delete(t.swatchImages, k)
	}
}

func (t *Tile) releaseBackground() {
	if t.background != nil {
		t.background.Deallocate()
	}
	t.background = nil
	t.backgroundSrc = nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
