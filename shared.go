package skintile

// SkinID identifies a skin. It is assigned by the gallery and never changes
// for the lifetime of a tile.
type SkinID int64

// ChromaID identifies a chroma within a skin's chroma list.
type ChromaID int64

// ChromaRef returns a pointer to id, for use as Props.SelectedChromaID.
func ChromaRef(id ChromaID) *ChromaID {
	return &id
}

// ChromaOption represents a single colour variant of a skin.
type ChromaOption struct {
	ID          ChromaID
	Colors      []string // Only the first two are rendered
	DownloadURL string   // Not used by the tile
}

// Props is everything the gallery hands to a tile. Selection fields are
// owned by the gallery and are never stored as tile state.
type Props struct {
	SkinID           SkinID
	BackgroundImage  string
	Chromas          []ChromaOption
	Selected         bool
	SelectedChromaID *ChromaID // nil when no chroma is selected
	OnSkinClick      func(SkinID)
	OnChromaClick    func(SkinID, ChromaID)
}

// State is the visible state of a tile.
type State int

const (
	StatePlaceholder State = iota
	StateLoadedUnselected
	StateLoadedSelected
)

func (s State) String() string {
	switch s {
	case StatePlaceholder:
		return "placeholder"
	case StateLoadedUnselected:
		return "loaded-unselected"
	case StateLoadedSelected:
		return "loaded-selected"
	default:
		return "unknown"
	}
}

// Readiness reports whether the current background image has been decoded.
type Readiness int

const (
	NotReady Readiness = iota
	Ready
)

func (r Readiness) String() string {
	if r == Ready {
		return "ready"
	}
	return "not-ready"
}
