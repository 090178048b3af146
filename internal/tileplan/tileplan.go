// Package tileplan lays an artwork's placement rectangle out into a
// row-major grid of tiles and hands the scheduler a cyclic cursor over the
// tiles worth visiting — those with at least one inside pixel under the
// artwork's detourage mode.
package tileplan

import (
	"bluescan/internal/detourage"
	"bluescan/internal/model"
)

// Tile is one cell of the grid, in canvas-absolute coordinates.
type Tile struct {
	X, Y, W, H int
}

// Plan is the tile grid computed for one artwork, plus the cyclic cursor
// the scheduler advances on every visit, round-robin, wrapping.
type Plan struct {
	Tiles  []Tile
	cursor int

	// fp identifies the inputs this Plan was built from; Stale reports
	// whether the artwork has since changed shape and the Plan needs
	// rebuilding whenever placement, tile size, or the inside mask changes.
	fp fingerprint
}

type fingerprint struct {
	placement     model.Placement
	tileW         int
	tileH         int
	ignoreOutside bool
	maskBytes     int
	maskSum       uint32
}

// Build lays out tiles for an artwork's placement. When ignoreOutside is
// true, any tile with no inside pixel (per the detourage mode table) is
// dropped, since outside pixels are never compared and such a tile has
// nothing left to check. When ignoreOutside is false, every tile is kept
// regardless of inside/outside content, since outside pixels still need
// visiting against ground. inside is a w×h byte mask aligned to the
// placement (w=placement.W, h=placement.H), as produced by
// detourage.Inside; it may be nil, meaning every tile is kept (used when
// an artwork has neither template nor polygon yet, e.g. freshly
// registered in build mode).
func Build(placement model.Placement, tileW, tileH int, ignoreOutside bool, inside []byte) *Plan {
	var tiles []Tile
	for y := 0; y < placement.H; y += tileH {
		h := tileH
		if y+h > placement.H {
			h = placement.H - y
		}
		for x := 0; x < placement.W; x += tileW {
			w := tileW
			if x+w > placement.W {
				w = placement.W - x
			}
			if ignoreOutside && inside != nil && !detourage.AnyNonzero(inside, placement.W, x, y, w, h) {
				continue
			}
			tiles = append(tiles, Tile{
				X: placement.X + x,
				Y: placement.Y + y,
				W: w,
				H: h,
			})
		}
	}
	return &Plan{
		Tiles: tiles,
		fp:    fingerprintOf(placement, tileW, tileH, ignoreOutside, inside),
	}
}

func fingerprintOf(placement model.Placement, tileW, tileH int, ignoreOutside bool, inside []byte) fingerprint {
	var sum uint32
	for _, b := range inside {
		sum = sum*31 + uint32(b)
	}
	return fingerprint{
		placement:     placement,
		tileW:         tileW,
		tileH:         tileH,
		ignoreOutside: ignoreOutside,
		maskBytes:     len(inside),
		maskSum:       sum,
	}
}

// Stale reports whether the Plan no longer matches the artwork's current
// placement, tile size, ignore_outside setting, and inside mask and must
// be rebuilt.
func (p *Plan) Stale(placement model.Placement, tileW, tileH int, ignoreOutside bool, inside []byte) bool {
	return p.fp != fingerprintOf(placement, tileW, tileH, ignoreOutside, inside)
}

// Len returns the number of tiles worth visiting.
func (p *Plan) Len() int { return len(p.Tiles) }

// Next returns the next tile in round-robin order and advances the cursor,
// wrapping at the end. It reports false if the plan has no tiles.
func (p *Plan) Next() (Tile, bool) {
	if len(p.Tiles) == 0 {
		return Tile{}, false
	}
	t := p.Tiles[p.cursor%len(p.Tiles)]
	p.cursor++
	if p.cursor >= len(p.Tiles) {
		p.cursor = 0
	}
	return t, true
}

// ResetCursor rewinds round-robin position to the first tile. The
// scheduler calls it on every plan when the set of tracked artwork ids
// changes.
func (p *Plan) ResetCursor() { p.cursor = 0 }
