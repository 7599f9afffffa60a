package ui

import "github.com/ingyamilmolinar/tonefield/core/voice"

// paramsAt maps a screen point to sine parameters: x is pitch, y is volume.
func (g *Game) paramsAt(x, y int) voice.Parameters {
	tx := clamp01(float64(x) / float64(g.winW))
	ty := clamp01(float64(y) / float64(g.winH))
	return voice.NewSine(float32(lerp(g.fmin, g.fmax, tx)), float32(ty))
}

// positionOf is the inverse of paramsAt, used to draw voices.
func (g *Game) positionOf(p voice.Parameters) (x, y float64) {
	tx := unlerp(g.fmin, g.fmax, float64(p.Sine.Frequency))
	return tx * float64(g.winW), float64(p.Sine.Volume) * float64(g.winH)
}
