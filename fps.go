package arbor

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// drawFPS paints an FPS/TPS readout over a translucent box in the top-left
// corner of screen.
func drawFPS(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(100, 32)
	op.ColorScale.ScaleWithColor(Color{0, 0, 0, 0.5}.RGBA())
	screen.DrawImage(WhitePixel, &op)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
