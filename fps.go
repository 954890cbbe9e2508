package tinsel

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsRefresh is how often, in milliseconds, the overlay text is redrawn.
const statsRefresh = 500

// statsOverlay is the on-screen readout toggled by Scene.ShowStats.
type statsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
	valid      bool
}

// statsText formats the overlay contents.
func (s *Scene) statsText() string {
	return fmt.Sprintf("FPS: %.1f (est %.1f)\nTPS: %.1f\nlights: %d\nsnow: %d/%d\nfireworks: %d",
		ebiten.ActualFPS(), s.perf.FPS(), ebiten.ActualTPS(),
		len(s.lights), len(s.snow), s.SnowTarget(s.now), len(s.fireworks))
}

// drawStats draws the overlay in the top-left corner, refreshing its text
// roughly twice a second.
func (s *Scene) drawStats(screen *ebiten.Image) {
	o := &s.gpu.overlay
	if o.img == nil {
		// 160x80 fits six DebugPrint lines.
		o.img = ebiten.NewImage(160, 80)
	}
	if !o.valid || s.now-o.lastUpdate >= statsRefresh || s.now < o.lastUpdate {
		o.lastUpdate = s.now
		o.valid = true
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, s.statsText())
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	screen.DrawImage(o.img, &op)
}
