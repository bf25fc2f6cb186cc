package skintile

import (
	"image"
	"image/color"
	"testing"
	"time"
)

func TestBisectedSwatch(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	img := bisectedSwatch(20, red, blue)

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"top-left half", 6, 6, red},
		{"bottom-right half", 13, 13, blue},
		{"top-right edge of primary", 9, 3, red},
		{"corner outside the circle", 0, 0, color.NRGBA{}},
		{"far corner outside the circle", 19, 19, color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	l := Layout{SwatchDiameter: 10, SwatchGap: 4, Padding: 5}
	bounds := image.Rect(100, 100, 300, 200)

	if got, want := l.SwatchRect(bounds, 0), image.Rect(105, 185, 115, 195); got != want {
		t.Errorf("SwatchRect(0) = %v, want %v", got, want)
	}
	if got, want := l.SwatchRect(bounds, 2), image.Rect(133, 185, 143, 195); got != want {
		t.Errorf("SwatchRect(2) = %v, want %v", got, want)
	}
	if got, want := l.StripRect(bounds, 3), image.Rect(105, 185, 143, 195); got != want {
		t.Errorf("StripRect(3) = %v, want %v", got, want)
	}
	if got := l.StripRect(bounds, 0); !got.Empty() {
		t.Errorf("StripRect(0) = %v, want empty", got)
	}
}

func TestTween(t *testing.T) {
	tw := newTween(0, 1, 100*time.Millisecond)
	tw.set(1)
	tw.step(50 * time.Millisecond)
	if tw.value != 0.5 {
		t.Errorf("value after half the duration = %v, want 0.5", tw.value)
	}
	tw.step(time.Second)
	if !tw.settled() || tw.value != 1 {
		t.Errorf("value = %v settled=%v, want 1 settled", tw.value, tw.settled())
	}

	tw.set(0)
	for i := 0; i < 11; i++ {
		tw.step(10 * time.Millisecond)
	}
	if tw.value != 0 {
		t.Errorf("value = %v after fading out, want 0", tw.value)
	}

	tw.set(1)
	tw.snap(0.25)
	if !tw.settled() || tw.value != 0.25 {
		t.Errorf("snap left value=%v target=%v", tw.value, tw.target)
	}
}
