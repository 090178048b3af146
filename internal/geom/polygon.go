// Package geom turns an operator-drawn four-corner polygon into the
// bounding-box placement and inside-mask bluescan stores for an artwork.
//
// Rasterization is done with github.com/gogpu/gg's default software
// renderer (no GPU backend needed): the polygon is traced as a path and
// AsMask() reads back its anti-aliased coverage as a single-channel mask.
package geom

import (
	"fmt"

	"github.com/gogpu/gg"

	"bluescan/internal/model"
)

// Point is an (x, y) canvas coordinate.
type Point struct {
	X, Y int
}

// BoundingBox computes the axis-aligned bounding box of four corners and
// rasterizes the polygon they describe into a Raster mask the same size as
// the box, with mask pixel (0,0) aligned to the box's top-left corner.
func BoundingBox(corners [4]Point) (model.Placement, *model.Raster, error) {
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := corners[0].X, corners[0].Y
	for _, p := range corners[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return model.Placement{}, nil, fmt.Errorf("degenerate polygon: bounding box is %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	dc.MoveTo(float64(corners[0].X-minX), float64(corners[0].Y-minY))
	for _, p := range corners[1:] {
		dc.LineTo(float64(p.X-minX), float64(p.Y-minY))
	}
	dc.ClosePath()
	dc.SetRGBA(1, 1, 1, 1)
	mask := dc.AsMask()

	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = mask.At(x, y)
		}
	}

	return model.Placement{X: minX, Y: minY, W: w, H: h}, &model.Raster{W: w, H: h, Pix: pix}, nil
}
