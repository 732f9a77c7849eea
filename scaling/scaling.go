// package scaling resizes and fits polylines for printing.
package scaling

import (
	"fmt"
	"log"
	"math"

	"iboardbot.dev/svg"
)

type Range struct {
	Min, Max float64
}

func (r Range) Spread() float64 {
	return r.Max - r.Min
}

type Bounds struct {
	X, Y Range
}

// AddPadding shrinks the bounds by padding on every side. Padding
// larger than the spread is a programmer error.
func (b *Bounds) AddPadding(padding float64) {
	b.X.Min += padding
	b.X.Max -= padding
	b.Y.Min += padding
	b.Y.Max -= padding
	if b.X.Spread() < 0 || b.Y.Spread() < 0 {
		panic(fmt.Sprintf("scaling: padding %g exceeds the bounds", padding))
	}
}

// bounds returns the extrema of the polylines, or false if they
// contain no points.
func bounds(polylines []svg.Polyline) (Bounds, bool) {
	b := Bounds{
		X: Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Y: Range{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	found := false
	for _, pl := range polylines {
		for _, p := range pl {
			found = true
			b.X.Min = math.Min(b.X.Min, p.X)
			b.X.Max = math.Max(b.X.Max, p.X)
			b.Y.Min = math.Min(b.Y.Min, p.Y)
			b.Y.Max = math.Max(b.Y.Max, p.Y)
		}
	}
	return b, found
}

// Scale transforms the polylines in place by the given scale factors
// and offset.
func Scale(polylines []svg.Polyline, offsetX, offsetY, scaleX, scaleY float64) {
	log.Printf("scaling: scaling polylines with offset (%g, %g) and factors (%g, %g)", offsetX, offsetY, scaleX, scaleY)
	for _, pl := range polylines {
		for i, p := range pl {
			pl[i] = svg.CoordinatePair{
				X: scaleX*p.X + offsetX,
				Y: scaleY*p.Y + offsetY,
			}
		}
	}
}

// Fit scales and translates the polylines in place so they fill the
// target bounds, preserving aspect ratio and centring horizontally.
// Degenerate scale factors are replaced by 1.
func Fit(polylines []svg.Polyline, target Bounds) error {
	if len(polylines) == 0 {
		log.Printf("scaling: nothing to fit")
		return nil
	}
	current, ok := bounds(polylines)
	if !ok {
		return fmt.Errorf("scaling: could not calculate bounds")
	}

	xFactor := target.X.Spread() / current.X.Spread()
	yFactor := target.Y.Spread() / current.Y.Spread()
	if !normal(xFactor) {
		xFactor = 1
	}
	if !normal(yFactor) {
		yFactor = 1
	}
	factor := math.Min(xFactor, yFactor)

	// Center horizontally inside the target box.
	width := current.X.Spread() * factor
	xOffset := (target.X.Spread() - width) / 2

	for _, pl := range polylines {
		for i, p := range pl {
			pl[i] = svg.CoordinatePair{
				X: (p.X-current.X.Min)*factor + target.X.Min + xOffset,
				Y: (p.Y-current.Y.Min)*factor + target.Y.Min,
			}
		}
	}
	return nil
}

// normal reports whether f is a normal floating point number: not
// zero, subnormal, infinite or NaN.
func normal(f float64) bool {
	return f != 0 && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) >= math.SmallestNonzeroFloat64*(1<<52)
}
