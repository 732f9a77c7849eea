// package qrdraw converts QR codes into polyline strokes for the
// plotter.
package qrdraw

import (
	"fmt"

	"github.com/kortschak/qr"

	"iboardbot.dev/svg"
)

// Polylines encodes content as a QR code and fills its black modules
// with horizontal strokes, one per run of adjacent black modules in a
// row, alternating direction from row to row so the pen zig-zags down
// the code. moduleMM is the module size in
// millimeters; strokes are inset by half a module at each end so a
// pen of module width stays inside the run.
func Polylines(content string, moduleMM float64) ([]svg.Polyline, error) {
	code, err := qr.Encode(content, qr.M)
	if err != nil {
		return nil, fmt.Errorf("qrdraw: %w", err)
	}
	dim := code.Size
	r := moduleMM / 2
	var polylines []svg.Polyline
	for y := 0; y < dim; y++ {
		cy := (float64(y) + 0.5) * moduleMM
		rev := y%2 != 0
		var row []svg.Polyline
		draw := false
		first := 0
		for x := 0; x <= dim; x++ {
			on := x < dim && code.Black(x, y)
			switch {
			case !draw && on:
				draw, first = true, x
			case draw && !on:
				start := svg.CoordinatePair{X: float64(first)*moduleMM + r, Y: cy}
				end := svg.CoordinatePair{X: float64(x)*moduleMM - r, Y: cy}
				if rev {
					start, end = end, start
				}
				row = append(row, svg.Polyline{start, end})
				draw = false
			}
		}
		if rev {
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
		polylines = append(polylines, row...)
	}
	return polylines, nil
}
