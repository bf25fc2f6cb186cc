package skintile

import "image/color"

// Presentation is what a tile should look like for a given set of props.
type Presentation struct {
	State          State
	ShowBackground bool
	DimOverlay     bool
	ChromaStrip    bool
	Swatches       []SwatchView // Empty unless ChromaStrip
}

// SwatchView describes one chroma swatch.
type SwatchView struct {
	ID        ChromaID
	Primary   color.NRGBA // top-left half
	Secondary color.NRGBA // bottom-right half
	Selected  bool
}

// SelectedSwatch returns the index of the selected swatch, or -1.
func (p Presentation) SelectedSwatch() int {
	for i, s := range p.Swatches {
		if s.Selected {
			return i
		}
	}
	return -1
}

// Present derives the presentation from the loading flag and the latest
// props. It holds no state: selection is always read from p.
func Present(loading bool, p Props) Presentation {
	if loading {
		return Presentation{State: StatePlaceholder}
	}

	pr := Presentation{
		State:          StateLoadedUnselected,
		ShowBackground: true,
		DimOverlay:     p.Selected,
		ChromaStrip:    len(p.Chromas) > 0,
	}
	if p.Selected {
		pr.State = StateLoadedSelected
	}
	if !pr.ChromaStrip {
		return pr
	}

	pr.Swatches = make([]SwatchView, len(p.Chromas))
	matched := false
	for i, c := range p.Chromas {
		primary, secondary := swatchColors(c.Colors)
		selected := !matched && p.SelectedChromaID != nil && *p.SelectedChromaID == c.ID
		if selected {
			matched = true
		}
		pr.Swatches[i] = SwatchView{
			ID:        c.ID,
			Primary:   primary,
			Secondary: secondary,
			Selected:  selected,
		}
	}
	return pr
}
