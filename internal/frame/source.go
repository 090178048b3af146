// Package frame abstracts over the current state of the remote canvas. The
// scheduler only ever sees the Source interface, so it can run against
// synthetic frames in tests without a real browser.
package frame

import "bluescan/internal/model"

// Source returns the most recent RGBA frame of the remote canvas, plus a
// region-read helper for smaller reads (e.g. a single ground snapshot).
// Both methods return (nil, nil) when a frame currently cannot be obtained
// — that is not an error, it is the tick-skip signal to the scheduler.
type Source interface {
	FetchFull() (*model.Raster, error)
	FetchRegion(x, y, w, h int) (*model.Raster, error)
}

// Sub extracts the [x,y,w,h) sub-rectangle of a full-frame raster as its
// own contiguous Raster. Used by the scheduler to slice a tile's pixels out
// of the single frame fetched per tick. The backing buffer
// comes from a size-keyed pool; call ReleaseSub once the tile has been
// compared to return it.
func Sub(f *model.Raster, x, y, w, h int) *model.Raster {
	out := getBuf(w * h * 4)
	for row := 0; row < h; row++ {
		srcOff := ((y+row)*f.W + x) * 4
		dstOff := row * w * 4
		copy(out[dstOff:dstOff+w*4], f.Pix[srcOff:srcOff+w*4])
	}
	return &model.Raster{W: w, H: h, Pix: out}
}

// ReleaseSub returns a Raster obtained from Sub to its buffer pool.
func ReleaseSub(r *model.Raster) {
	if r == nil {
		return
	}
	putBuf(r.Pix)
}
