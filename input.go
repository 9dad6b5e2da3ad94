package surface

import "go.uber.org/zap"

// --- Hit testing ---

// HandleClick hit-tests the physical point (x, y) against the active
// regions in registration order and invokes the first match's callback
// with (x, y). Overlapping regions are not ranked by area: the earliest
// registered wins. A miss is dropped and only logged in debug mode.
// Reports whether a region was hit.
func (b *Bridge) HandleClick(x, y int) bool {
	if b.diag.Enabled() {
		lp := b.transform.ToLogical(Point{X: float64(x), Y: float64(y)})
		b.log.Info("click",
			zap.Int("x", x), zap.Int("y", y),
			zap.Float64("logicalX", lp.X), zap.Float64("logicalY", lp.Y),
		)
	}

	r := b.regions.hitTest(x, y)
	if r == nil {
		b.diag.Log("click outside all regions", false, zap.Int("regions", b.regions.len()))
		b.emit(InteractionEvent{Type: EventClick, X: x, Y: y})
		return false
	}

	b.diag.Log("click hit", false, zap.Int("region", r.ID), zap.String("element", elementLabel(r.Element)))
	if r.Callback != nil {
		r.Callback(x, y)
	}
	b.emit(InteractionEvent{Type: EventClick, X: x, Y: y, RegionID: r.ID})
	return true
}
