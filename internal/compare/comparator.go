// Package compare implements the pure pixel-classification rules the
// scheduler applies to every tile it visits: is the captured frame still an
// acceptable rendering of an artwork, given what that artwork is currently
// supposed to look like.
package compare

import (
	"bluescan/internal/imaging"
	"bluescan/internal/model"
)

// Outcome is the tile-level verdict produced by Tile.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeSuspicion
	OutcomeDegradation
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeSuspicion:
		return "suspicion"
	case OutcomeDegradation:
		return "degradation"
	default:
		return "unknown"
	}
}

// Thresholds bounds the pixel-level counts that separate OK from
// suspicion and suspicion from degradation, in absolute failing-pixel
// counts (not a percentage, so small and large artworks don't share a
// threshold unfairly).
type Thresholds struct {
	Suspicion   int
	Degradation int
}

// Inputs bundles everything Tile needs to classify one captured tile.
// Ground and Template may each be nil when that reference hasn't been
// captured yet; InsideMask may be nil, meaning every pixel in the tile is
// treated as inside. The scheduler routes to the baseline fallback instead
// when either Template or Ground is missing and a baseline exists; without
// a baseline, Tile still runs, and a missing reference never counts as a
// match.
type Inputs struct {
	Frame         *model.Raster
	Template      *model.Raster
	Ground        *model.Raster
	InsideMask    []byte // tile-local, same W*H as Frame; nonzero = inside
	Mode          model.Mode
	Tolerance     int
	IgnoreOutside bool
	Thresholds    Thresholds
}

// Tile compares one captured tile against its references and returns the
// verdict plus the count of pixels that failed tolerance, for logging and
// alert copy.
func Tile(in Inputs) (Outcome, int) {
	w, h := in.Frame.W, in.Frame.H
	failing := 0

	for i := 0; i < w*h; i++ {
		inside := in.InsideMask == nil || in.InsideMask[i] != 0
		off := i * 4

		var ok bool
		if inside {
			ok = okInside(in, off)
		} else if in.IgnoreOutside {
			ok = true
		} else {
			ok = within(in.Frame.Pix, groundPix(in), off, in.Tolerance)
		}
		if !ok {
			failing++
		}
	}

	switch {
	case failing >= in.Thresholds.Degradation:
		return OutcomeDegradation, failing
	case failing >= in.Thresholds.Suspicion:
		return OutcomeSuspicion, failing
	default:
		return OutcomeOK, failing
	}
}

// okInside decides whether one inside pixel is acceptable. A template
// pixel whose RGB equals the deface sentinel must match ground
// regardless of mode — that is the one case where "inside" still judges
// against ground, not the template. Otherwise: build mode is lenient,
// either the bare ground or the in-progress template counts as fine,
// since the artwork is still being painted in; protect mode is strict,
// only the template counts, so a repaint back to ground (the artwork
// erased) or anything else both read as a failure.
func okInside(in Inputs, off int) bool {
	if in.Template != nil && imaging.IsDeface(in.Template.Pix, off) {
		return within(in.Frame.Pix, groundPix(in), off, in.Tolerance)
	}

	tplOK := in.Template != nil && within(in.Frame.Pix, in.Template.Pix, off, in.Tolerance)
	switch in.Mode {
	case model.ModeBuild:
		grdOK := in.Ground != nil && within(in.Frame.Pix, groundPix(in), off, in.Tolerance)
		return tplOK || grdOK
	default: // model.ModeProtect
		return tplOK
	}
}

// groundPix returns the ground raster's pixel buffer, or nil if no
// ground has been captured yet.
func groundPix(in Inputs) []byte {
	if in.Ground == nil {
		return nil
	}
	return in.Ground.Pix
}

// within reports whether frame and reference pixels at byte offset off
// match within tolerance on all four channels. A nil or short reference
// always fails (nothing to compare against is not "acceptable").
func within(frame, reference []byte, off, tolerance int) bool {
	if reference == nil || off+3 >= len(reference) {
		return false
	}
	for c := 0; c < 4; c++ {
		d := int(frame[off+c]) - int(reference[off+c])
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			return false
		}
	}
	return true
}

