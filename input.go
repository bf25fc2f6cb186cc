package skintile

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is the pointer state for one tick, in the same coordinate space as
// the tile bounds.
type Input struct {
	Cursor      image.Point
	CursorValid bool
	Activations []image.Point // presses that started this tick
}

// PollInput reads ebiten mouse and touch state. offset is added to every
// screen position, typically the gallery's scroll offset.
func PollInput(offset image.Point) Input {
	var in Input

	mx, my := ebiten.CursorPosition()
	in.Cursor = image.Pt(mx, my).Add(offset)
	in.CursorValid = true

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Activations = append(in.Activations, in.Cursor)
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		in.Activations = append(in.Activations, image.Pt(tx, ty).Add(offset))
	}
	return in
}
