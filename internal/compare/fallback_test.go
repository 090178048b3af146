package compare

import "testing"

func TestStridedScan_StrideOneIsExact(t *testing.T) {
	frame := solid(4, 4, 1, 1, 1, 255)
	baseline := solid(4, 4, 1, 1, 1, 255)
	frame.Pix[0] = 200
	if got := StridedScan(frame, baseline, 0, 1, true, 10); got != 1 {
		t.Fatalf("StridedScan = %d, want 1", got)
	}
}

func TestStridedScan_ScalesEstimateFromSample(t *testing.T) {
	// 8x8 tile, stride 2 samples a 4x4 grid (16 of 64 pixels). One
	// disagreement among the 16 samples scales to 64/16=4 estimated
	// failing pixels tile-wide.
	frame := solid(8, 8, 1, 1, 1, 255)
	baseline := solid(8, 8, 1, 1, 1, 255)
	frame.Pix[0] = 200 // sampled at (0,0)

	// suspicionThreshold=10 -> refine floor = max(3, 5) = 5; estimate 4
	// stays below it, so staged_scan should not trigger a refine.
	if got := StridedScan(frame, baseline, 0, 2, true, 10); got != 4 {
		t.Fatalf("StridedScan = %d, want scaled estimate 4", got)
	}
}

func TestStridedScan_StagedScanRefinesPastFloor(t *testing.T) {
	frame := solid(8, 8, 1, 1, 1, 255)
	baseline := solid(8, 8, 1, 1, 1, 255)
	// Two sampled disagreements -> estimate = 2*64/16 = 8, clearing the
	// refine floor of max(3, 10/2)=5, so this must trigger a full scan.
	frame.Pix[0] = 200
	frame.Pix[(2*8+2)*4] = 200
	// A third, off-grid disagreement the coarse pass never samples (stride
	// 2 only touches even x,y); only the refined full scan will see it.
	frame.Pix[(1*8+1)*4] = 200

	if got := StridedScan(frame, baseline, 0, 2, true, 10); got != 3 {
		t.Fatalf("StridedScan = %d, want exact count 3 once staged refine runs", got)
	}
}

func TestStridedScan_WithoutStagedScanReturnsEstimateRegardless(t *testing.T) {
	frame := solid(8, 8, 1, 1, 1, 255)
	baseline := solid(8, 8, 1, 1, 1, 255)
	frame.Pix[0] = 200
	frame.Pix[(2*8+2)*4] = 200
	frame.Pix[(1*8+1)*4] = 200 // off-grid; would only show up under a refine

	// estimate = 2*64/16 = 8, well past the refine floor, but staged_scan
	// is off so StridedScan must not refine and must return the estimate.
	if got := StridedScan(frame, baseline, 0, 2, false, 10); got != 8 {
		t.Fatalf("StridedScan = %d, want unrefined estimate 8", got)
	}
}
