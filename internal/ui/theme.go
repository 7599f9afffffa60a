package ui

import "image/color"

var (
	colBackground = color.RGBA{20, 20, 30, 255}
	colGuide      = color.RGBA{45, 45, 60, 255}
	colVoice      = color.RGBA{220, 40, 40, 255}
	colDragging   = color.RGBA{255, 200, 0, 255}
	colRing       = color.RGBA{240, 240, 240, 255}
)

const voiceRadius = 20
