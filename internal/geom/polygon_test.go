package geom

import "testing"

func TestBoundingBox_Square(t *testing.T) {
	corners := [4]Point{{10, 10}, {20, 10}, {20, 20}, {10, 20}}
	placement, mask, err := BoundingBox(corners)
	if err != nil {
		t.Fatalf("BoundingBox: %v", err)
	}
	if placement.X != 10 || placement.Y != 10 || placement.W != 10 || placement.H != 10 {
		t.Fatalf("placement = %+v, want {10 10 10 10}", placement)
	}
	if mask.W != 10 || mask.H != 10 {
		t.Fatalf("mask size = %dx%d, want 10x10", mask.W, mask.H)
	}
	// The square fills its own bounding box: center pixel must be inside.
	if mask.Pix[5*10+5] == 0 {
		t.Error("expected center pixel to be inside the polygon")
	}
	// A corner pixel far from the (axis-aligned) square's interior is still
	// inside here since the polygon IS the box; check a genuinely outside
	// mask would be empty for a degenerate case instead, see below.
}

func TestBoundingBox_Degenerate(t *testing.T) {
	corners := [4]Point{{10, 10}, {10, 10}, {10, 10}, {10, 10}}
	if _, _, err := BoundingBox(corners); err == nil {
		t.Fatal("expected an error for a zero-area polygon")
	}
}

func TestBoundingBox_Triangle(t *testing.T) {
	// A thin triangle inscribed in its bounding box should leave some
	// corners of the box outside the mask.
	corners := [4]Point{{0, 0}, {20, 0}, {10, 20}, {10, 20}}
	_, mask, err := BoundingBox(corners)
	if err != nil {
		t.Fatalf("BoundingBox: %v", err)
	}
	// (0,0) is itself a vertex; the bottom-left box pixel is well outside
	// the edge from (0,0) to (10,20).
	if mask.Pix[19*20+0] != 0 {
		t.Error("expected bottom-left corner to be outside the triangle")
	}
}
