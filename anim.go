package skintile

import "time"

// tween moves a value linearly toward a target. A change covering span
// takes duration. Only the end value matters for behaviour; the ramp is
// cosmetic.
type tween struct {
	value    float64
	target   float64
	span     float64
	duration time.Duration
}

func newTween(v, span float64, d time.Duration) tween {
	return tween{value: v, target: v, span: span, duration: d}
}

func (t *tween) set(target float64) {
	t.target = target
}

// snap jumps straight to v.
func (t *tween) snap(v float64) {
	t.value, t.target = v, v
}

func (t *tween) step(dt time.Duration) {
	if t.value == t.target {
		return
	}
	if t.duration <= 0 {
		t.value = t.target
		return
	}
	delta := t.span * float64(dt) / float64(t.duration)
	if t.value < t.target {
		t.value = min(t.target, t.value+delta)
	} else {
		t.value = max(t.target, t.value-delta)
	}
}

func (t *tween) settled() bool {
	return t.value == t.target
}

// Animation timings.
const (
	hoverScaleDuration   = 300 * time.Millisecond
	dimFadeDuration      = 300 * time.Millisecond
	stripFadeDuration    = 500 * time.Millisecond
	swatchHoverDuration  = 200 * time.Millisecond
	swatchSelectDuration = 300 * time.Millisecond
	swatchOverlayFade    = 200 * time.Millisecond

	tileHoverScale     = 1.05
	tileHoverPan       = 0.6
	swatchHoverScale   = 1.5
	swatchSelectScale  = 1.3
	backgroundOversize = 1.2
	dimOverlayAlpha    = 0.5
	swatchOverlayAlpha = 0.8
)
