package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/font/basicfont"

	"github.com/retroblast-engine/skintile"
)

const (
	galleryPadding = 24
	tileGap        = 16
	labelHeight    = 20
	wheelStep      = 48
	scrollEasing   = 0.18
)

var labelFace = text.NewGoXFace(basicfont.Face7x13)

var (
	backgroundColor = color.NRGBA{R: 0x11, G: 0x14, B: 0x1c, A: 0xff}
	labelColor      = color.NRGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
	selectedLabel   = color.NRGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}
)

type galleryConfig struct {
	Columns    int
	TileWidth  int
	TileHeight int
}

// gallery lays out one tile per catalog skin and owns the selection.
type gallery struct {
	cfg     galleryConfig
	catalog *Catalog
	logger  hclog.Logger
	copyURL func(string) error

	tiles []*skintile.Tile
	index map[skintile.SkinID]int

	selectedSkin   *skintile.SkinID
	selectedChroma *skintile.ChromaID

	scrollY      float64
	scrollTarget float64
	width        int
	height       int
}

func newGallery(cat *Catalog, cfg galleryConfig, logger hclog.Logger, fetcher skintile.Fetcher, copyFn func(string) error) *gallery {
	g := &gallery{
		cfg:     cfg,
		catalog: cat,
		logger:  logger,
		copyURL: copyFn,
		index:   make(map[skintile.SkinID]int, len(cat.Skins)),
	}
	for i, s := range cat.Skins {
		g.index[s.ID] = i
		t := skintile.New(g.props(i),
			skintile.WithLogger(logger.Named("tile")),
			skintile.WithFetcher(fetcher),
			skintile.WithScroller(g),
		)
		g.tiles = append(g.tiles, t)
	}
	return g
}

func (g *gallery) props(i int) skintile.Props {
	s := g.catalog.Skins[i]
	return skintile.Props{
		SkinID:           s.ID,
		BackgroundImage:  s.Image,
		Chromas:          s.chromaOptions(),
		Selected:         g.selectedSkin != nil && *g.selectedSkin == s.ID,
		SelectedChromaID: g.selectedChroma,
		OnSkinClick:      g.onSkinClick,
		OnChromaClick:    g.onChromaClick,
	}
}

// render pushes the current selection to every tile.
func (g *gallery) render() {
	for i, t := range g.tiles {
		t.SetProps(g.props(i))
	}
}

func (g *gallery) onSkinClick(id skintile.SkinID) {
	if g.selectedSkin != nil && *g.selectedSkin == id {
		return
	}
	g.logger.Info("skin selected", "skin", id)
	g.selectedSkin = &id
	g.selectedChroma = nil
	g.render()
}

func (g *gallery) onChromaClick(skin skintile.SkinID, chroma skintile.ChromaID) {
	g.logger.Info("chroma selected", "skin", skin, "chroma", chroma)
	g.selectedSkin = &skin
	g.selectedChroma = &chroma
	g.render()

	i, ok := g.index[skin]
	if !ok {
		return
	}
	url, ok := g.catalog.Skins[i].downloadURL(chroma)
	if !ok || url == "" || g.copyURL == nil {
		return
	}
	if err := g.copyURL(url); err != nil {
		g.logger.Warn("failed to copy download url", "url", url, "error", err)
		return
	}
	g.logger.Info("download url copied to clipboard", "url", url)
}

func (g *gallery) clearSelection() {
	if g.selectedSkin == nil && g.selectedChroma == nil {
		return
	}
	g.selectedSkin = nil
	g.selectedChroma = nil
	g.render()
}

// ScrollIntoView implements skintile.Scroller for the vertical axis.
func (g *gallery) ScrollIntoView(r image.Rectangle, opts skintile.ScrollOptions) {
	var target float64
	switch opts.Block {
	case skintile.BlockStart:
		target = float64(r.Min.Y - galleryPadding)
	case skintile.BlockEnd:
		target = float64(r.Max.Y + labelHeight + galleryPadding - g.height)
	case skintile.BlockNearest:
		target = g.scrollTarget
		if float64(r.Min.Y) < target {
			target = float64(r.Min.Y - galleryPadding)
		} else if float64(r.Max.Y+labelHeight) > target+float64(g.height) {
			target = float64(r.Max.Y + labelHeight + galleryPadding - g.height)
		}
	default:
		target = float64(r.Min.Y+r.Dy()/2) - float64(g.height)/2
	}
	g.scrollTarget = g.clampScroll(target)
	if opts.Behavior == skintile.BehaviorInstant {
		g.scrollY = g.scrollTarget
	}
}

func (g *gallery) contentHeight() int {
	cols := max(1, g.cfg.Columns)
	rows := (len(g.tiles) + cols - 1) / cols
	return 2*galleryPadding + rows*(g.cfg.TileHeight+labelHeight) + max(0, rows-1)*tileGap
}

func (g *gallery) clampScroll(y float64) float64 {
	limit := float64(max(0, g.contentHeight()-g.height))
	return math.Max(0, math.Min(y, limit))
}

// layoutTiles centres the grid horizontally.
func (g *gallery) layoutTiles() {
	cols := max(1, g.cfg.Columns)
	gridWidth := cols*g.cfg.TileWidth + (cols-1)*tileGap
	left := max(galleryPadding, (g.width-gridWidth)/2)
	for i, t := range g.tiles {
		col, row := i%cols, i/cols
		x := left + col*(g.cfg.TileWidth+tileGap)
		y := galleryPadding + row*(g.cfg.TileHeight+labelHeight+tileGap)
		t.SetBounds(image.Rect(x, y, x+g.cfg.TileWidth, y+g.cfg.TileHeight))
	}
}

func (g *gallery) Update() error {
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.scrollTarget = g.clampScroll(g.scrollTarget - dy*wheelStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.clearSelection()
	}

	g.scrollY += (g.scrollTarget - g.scrollY) * scrollEasing
	if math.Abs(g.scrollTarget-g.scrollY) < 0.5 {
		g.scrollY = g.scrollTarget
	}

	in := skintile.PollInput(image.Pt(0, int(g.scrollY)))
	for _, t := range g.tiles {
		t.Update(in)
	}
	return nil
}

func (g *gallery) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	offset := image.Pt(0, int(g.scrollY))
	for i, t := range g.tiles {
		t.Draw(screen, offset)

		b := t.Bounds().Sub(offset)
		clr := labelColor
		if g.selectedSkin != nil && *g.selectedSkin == t.SkinID() {
			clr = selectedLabel
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(b.Min.X), float64(b.Max.Y+4))
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, g.catalog.Skins[i].Name, labelFace, op)
	}
}

func (g *gallery) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.layoutTiles()
		g.scrollTarget = g.clampScroll(g.scrollTarget)
	}
	return outsideWidth, outsideHeight
}

func (g *gallery) Close() {
	for _, t := range g.tiles {
		t.Close()
	}
}
