// Package detourage computes the "inside" mask that both the tile planner
// (filtering which tiles are worth visiting) and the comparator
// (classifying pixels) need, so the two never drift apart and always agree
// on which pixels of an artwork are actually under protection.
package detourage

import "bluescan/internal/model"

// Inside returns a w×h byte mask (nonzero = inside) for the given
// detourage mode. tplAlpha and poly may each be nil; a nil raster is
// treated as "no information from that source".
func Inside(mode model.DetourageMode, tplAlpha, poly *model.Raster, w, h int) []byte {
	out := make([]byte, w*h)
	switch mode {
	case model.DetourageAlphaOnly:
		copyOrZero(out, tplAlpha)
	case model.DetourageColorOnly:
		if poly != nil {
			copyOrZero(out, poly)
		} else {
			copyOrZero(out, tplAlpha)
		}
	case model.DetourageAlphaOrPolygon:
		unionInto(out, tplAlpha)
		unionInto(out, poly)
	}
	return out
}

func copyOrZero(dst []byte, src *model.Raster) {
	if src == nil {
		return
	}
	copy(dst, src.Pix)
}

func unionInto(dst []byte, src *model.Raster) {
	if src == nil {
		return
	}
	for i, v := range src.Pix {
		if v != 0 {
			dst[i] = 1
		}
	}
}

// AlphaMask extracts a w×h nonzero-alpha byte mask from an RGBA template
// raster: alpha_mask = tpl.alpha > 0.
func AlphaMask(tpl *model.Raster) *model.Raster {
	if tpl == nil {
		return nil
	}
	out := make([]byte, tpl.W*tpl.H)
	for i := 0; i < len(out); i++ {
		if tpl.Pix[i*4+3] > 0 {
			out[i] = 1
		}
	}
	return &model.Raster{W: tpl.W, H: tpl.H, Pix: out}
}

// PolyMask normalizes a polygon mask raster (nonzero byte = inside) to the
// same 0/1 encoding AlphaMask produces.
func PolyMask(poly *model.Raster) *model.Raster {
	if poly == nil {
		return nil
	}
	out := make([]byte, poly.W*poly.H)
	for i, v := range poly.Pix {
		if v != 0 {
			out[i] = 1
		}
	}
	return &model.Raster{W: poly.W, H: poly.H, Pix: out}
}

// AnyNonzero reports whether any byte in the [x,y,w,h) sub-rectangle of a
// full-size mask is nonzero. mask is row-major with the given fullW.
func AnyNonzero(mask []byte, fullW, x, y, w, h int) bool {
	for row := 0; row < h; row++ {
		off := (y+row)*fullW + x
		for col := 0; col < w; col++ {
			if mask[off+col] != 0 {
				return true
			}
		}
	}
	return false
}
