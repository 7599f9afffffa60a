package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawVoice draws one voice marker. It is a variable so tests can capture
// draw calls.
var drawVoice = func(dst *ebiten.Image, x, y float64, fill color.Color, ring bool) {
	vector.DrawFilledCircle(dst, float32(x), float32(y), voiceRadius, fill, true)
	if ring {
		vector.StrokeCircle(dst, float32(x), float32(y), voiceRadius+3, 2, colRing, true)
	}
}

var drawGuide = func(dst *ebiten.Image, x float64, h int) {
	vector.StrokeLine(dst, float32(x), 0, float32(x), float32(h), 1, colGuide, false)
}

var drawText = func(dst *ebiten.Image, s string) {
	ebitenutil.DebugPrint(dst, s)
}
