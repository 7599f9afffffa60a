package ui

import "github.com/hajimehoshi/ebiten/v2"

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed
)

// SetInputForTest replaces input functions during tests and returns a function
// to restore the originals.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
) func() {
	oldCursor := cursorPosition
	oldMouse := isMouseButtonPressed
	oldKey := isKeyPressed
	cursorPosition = cursor
	isMouseButtonPressed = mouse
	isKeyPressed = key
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		isKeyPressed = oldKey
	}
}

// edge turns a level (held/not held) into a just-pressed pulse.
type edge struct{ prev bool }

func (e *edge) pressed(down bool) bool {
	jp := down && !e.prev
	e.prev = down
	return jp
}
