package surface

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	overlayBorderWidth = 2
	overlayGlowWidth   = 10
	overlayGlowAlpha   = 0.5
	overlayGlowSeconds = 0.4
)

// overlayBorder is one region outline. The glow fades in once when the
// border is added and then stays.
type overlayBorder struct {
	regionID int
	rect     LogicalRect
	glow     *gween.Tween
	alpha    float32
}

// Overlay outlines registered regions in red so a developer can see where
// clicks will land. It is purely cosmetic: nothing in hit testing reads it.
// Borders are drawn in logical pixels, on top of the content.
type Overlay struct {
	transform Transformer
	borders   []overlayBorder
}

func newOverlay(t Transformer) *Overlay {
	return &Overlay{transform: t}
}

// add outlines a region's physical box.
func (o *Overlay) add(regionID int, box Box) {
	o.borders = append(o.borders, overlayBorder{
		regionID: regionID,
		rect:     o.transform.BoxToLogical(box),
		glow:     gween.New(0, overlayGlowAlpha, overlayGlowSeconds, ease.OutQuad),
	})
}

// Len returns the number of outlined regions.
func (o *Overlay) Len() int {
	return len(o.borders)
}

// Rects returns the outlined rectangles in logical pixels, in registration order.
func (o *Overlay) Rects() []LogicalRect {
	out := make([]LogicalRect, len(o.borders))
	for i, b := range o.borders {
		out[i] = b.rect
	}
	return out
}

// Update advances the glow fade by dt seconds.
func (o *Overlay) Update(dt float32) {
	for i := range o.borders {
		b := &o.borders[i]
		if b.glow == nil {
			continue
		}
		val, done := b.glow.Update(dt)
		b.alpha = val
		if done {
			b.glow = nil
		}
	}
}

// Draw strokes every border onto dst.
func (o *Overlay) Draw(dst *ebiten.Image) {
	for _, b := range o.borders {
		x, y := float32(b.rect.Left), float32(b.rect.Top)
		w, h := float32(b.rect.Width), float32(b.rect.Height)
		if b.alpha > 0 {
			vector.StrokeRect(dst, x, y, w, h, overlayGlowWidth, glowColor(b.alpha), true)
		}
		vector.StrokeRect(dst, x, y, w, h, overlayBorderWidth, color.RGBA{R: 255, A: 255}, true)
	}
}

// glowColor returns premultiplied red at the given alpha.
func glowColor(alpha float32) color.RGBA {
	a := uint8(alpha * 255)
	return color.RGBA{R: a, A: a}
}
