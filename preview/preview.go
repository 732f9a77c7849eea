// package preview renders polylines as raster images for the browser
// preview.
package preview

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"iboardbot.dev/robot"
	"iboardbot.dev/svg"
)

// penWidth is the stroke width in millimeters, roughly a whiteboard
// marker tip.
const penWidth = 1.5

// Render strokes the polylines onto a white board-sized canvas at
// pxPerMM pixels per millimeter.
func Render(polylines []svg.Polyline, pxPerMM float64) *image.RGBA {
	w := int(robot.Width * pxPerMM)
	h := int(robot.Height * pxPerMM)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	stroke := max(1, int(penWidth*pxPerMM))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	dasher.SetStroke(fixed.I(stroke), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	dasher.SetColor(color.Black)

	for _, pl := range polylines {
		if len(pl) < 2 {
			continue
		}
		dasher.Start(rasterx.ToFixedP(pl[0].X*pxPerMM, pl[0].Y*pxPerMM))
		for _, p := range pl[1:] {
			dasher.Line(rasterx.ToFixedP(p.X*pxPerMM, p.Y*pxPerMM))
		}
		dasher.Stop(false)
	}
	dasher.Draw()
	return img
}
