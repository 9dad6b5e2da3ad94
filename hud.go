package surface

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// 160x48 fits the three status lines.
const (
	hudWidth  = 160
	hudHeight = 48
)

// DrawDebug draws the region overlay onto dst and, in debug mode, a status
// panel in the top-left corner.
func (b *Bridge) DrawDebug(dst *ebiten.Image) {
	b.overlay.Draw(dst)
	if !b.diag.Enabled() {
		return
	}
	if b.hud == nil {
		b.hud = ebiten.NewImage(hudWidth, hudHeight)
	}
	b.hud.Clear()
	// Semi-transparent background for readability
	b.hud.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(b.hud, b.statusText())

	dst.DrawImage(b.hud, nil)
}

// statusText is the debug panel content.
func (b *Bridge) statusText() string {
	mode := "off"
	if b.interaction {
		mode = "on"
	}
	return fmt.Sprintf("surface %s @%gx\nregions: %d\ninteraction: %s",
		Version, b.transform.Scale(), b.regions.len(), mode)
}
