package surface

import "math"

// Transformer converts between physical pixels (host space) and logical
// pixels (content space). The scale is fixed when the Transformer is built;
// a later DPI change on the host is not observed.
type Transformer struct {
	scale float64
}

// NewTransformer returns a Transformer for the given physical-per-logical
// scale. Non-positive or NaN scales fall back to 1.
func NewTransformer(scale float64) Transformer {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	return Transformer{scale: scale}
}

// Scale returns the physical-per-logical pixel ratio.
func (t Transformer) Scale() float64 {
	return t.scale
}

// ToPhysical converts a logical point to physical pixels.
func (t Transformer) ToPhysical(p Point) Point {
	return Point{X: p.X * t.scale, Y: p.Y * t.scale}
}

// ToLogical converts a physical point to logical pixels. The result is not
// rounded.
func (t Transformer) ToLogical(p Point) Point {
	return Point{X: p.X / t.scale, Y: p.Y / t.scale}
}

// BoxToPhysical converts a logical layout rectangle to a physical box.
// Every edge and dimension is rounded independently to the nearest whole
// pixel, so Width may differ from Right-Left by one.
func (t Transformer) BoxToPhysical(r LogicalRect) Box {
	return Box{
		Left:   roundPixel(r.Left * t.scale),
		Top:    roundPixel(r.Top * t.scale),
		Right:  roundPixel(r.Right() * t.scale),
		Bottom: roundPixel(r.Bottom() * t.scale),
		Width:  roundPixel(r.Width * t.scale),
		Height: roundPixel(r.Height * t.scale),
	}
}

// BoxToLogical converts a physical box back to logical pixels for display.
func (t Transformer) BoxToLogical(b Box) LogicalRect {
	return LogicalRect{
		Left:   float64(b.Left) / t.scale,
		Top:    float64(b.Top) / t.scale,
		Width:  float64(b.Width) / t.scale,
		Height: float64(b.Height) / t.scale,
	}
}

// roundPixel rounds to the nearest integer with halves going up (-0.5 -> 0).
func roundPixel(v float64) int {
	return int(math.Floor(v + 0.5))
}
