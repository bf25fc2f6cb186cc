package skintile

import "image"

// ScrollBlock is the vertical alignment requested when scrolling.
type ScrollBlock int

const (
	BlockNearest ScrollBlock = iota
	BlockStart
	BlockCenter
	BlockEnd
)

// ScrollBehavior selects between an animated and an immediate scroll.
type ScrollBehavior int

const (
	BehaviorSmooth ScrollBehavior = iota
	BehaviorInstant
)

// ScrollOptions travel with every scroll request.
type ScrollOptions struct {
	Block    ScrollBlock
	Behavior ScrollBehavior
}

// Scroller is implemented by whatever owns the viewport the tile lives in.
type Scroller interface {
	ScrollIntoView(r image.Rectangle, opts ScrollOptions)
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(r image.Rectangle, opts ScrollOptions)

func (f ScrollerFunc) ScrollIntoView(r image.Rectangle, opts ScrollOptions) {
	f(r, opts)
}

// selectedScroll is what a tile asks for when it becomes selected.
var selectedScroll = ScrollOptions{Block: BlockCenter, Behavior: BehaviorSmooth}

// ScrollSynchronizer detects rising edges of the selected flag.
type ScrollSynchronizer struct {
	wasSelected bool
}

// Observe records the latest selected flag and reports whether a scroll
// request is due. The first observation of true counts as an edge.
func (s *ScrollSynchronizer) Observe(selected bool) bool {
	fire := selected && !s.wasSelected
	s.wasSelected = selected
	return fire
}
