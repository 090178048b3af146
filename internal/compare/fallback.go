package compare

import "bluescan/internal/model"

// StridedScan checks a tile against a legacy baseline raster the way an
// artwork that predates ground capture is checked: no template or ground to
// judge individual pixels against, so it samples every stride'th pixel,
// scales the disagreement count up to estimate the full-tile count, and —
// only when stagedScan allows it and the estimate looks substantial enough
// to be worth the precision — reruns at stride=1 for an exact count.
//
// stride <= 1 always scans every pixel directly.
func StridedScan(frame, baseline *model.Raster, tolerance, stride int, stagedScan bool, suspicionThreshold int) int {
	if stride <= 1 {
		return fullScan(frame, baseline, tolerance)
	}

	w, h := frame.W, frame.H
	disagreements, sampled := 0, 0
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			off := (y*w + x) * 4
			sampled++
			if !within(frame.Pix, baseline.Pix, off, tolerance) {
				disagreements++
			}
		}
	}
	if sampled == 0 {
		return 0
	}
	estimate := disagreements * (w * h) / sampled

	refineFloor := suspicionThreshold / 2
	if refineFloor < 3 {
		refineFloor = 3
	}
	if stagedScan && estimate >= refineFloor {
		return fullScan(frame, baseline, tolerance)
	}
	return estimate
}

func fullScan(frame, baseline *model.Raster, tolerance int) int {
	failing := 0
	for i := 0; i < frame.W*frame.H; i++ {
		if !within(frame.Pix, baseline.Pix, i*4, tolerance) {
			failing++
		}
	}
	return failing
}
