package tileplan

import (
	"testing"

	"bluescan/internal/model"
)

func TestBuild_EdgeTruncation(t *testing.T) {
	placement := model.Placement{X: 10, Y: 20, W: 25, H: 15}
	p := Build(placement, 10, 10, false, nil)

	if got, want := p.Len(), 6; got != want { // 3 cols x 2 rows (ceil(25/10)=3, ceil(15/10)=2)
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	last := p.Tiles[len(p.Tiles)-1]
	if last.W != 5 || last.H != 5 {
		t.Fatalf("expected truncated edge tile 5x5, got %dx%d", last.W, last.H)
	}
	first := p.Tiles[0]
	if first.X != 10 || first.Y != 20 {
		t.Fatalf("expected first tile anchored at placement origin, got (%d,%d)", first.X, first.Y)
	}
}

func TestBuild_InsideMaskFiltersTilesWhenIgnoreOutside(t *testing.T) {
	placement := model.Placement{X: 0, Y: 0, W: 20, H: 10}
	inside := make([]byte, 20*10)
	// Only mark the second tile column (x in [10,20)) as inside.
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			inside[y*20+x] = 1
		}
	}
	p := Build(placement, 10, 10, true, inside)
	if got, want := p.Len(), 1; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if p.Tiles[0].X != 10 {
		t.Fatalf("expected surviving tile at x=10, got x=%d", p.Tiles[0].X)
	}
}

func TestBuild_KeepsAllTilesWhenNotIgnoringOutside(t *testing.T) {
	placement := model.Placement{X: 0, Y: 0, W: 20, H: 10}
	inside := make([]byte, 20*10) // entirely outside
	p := Build(placement, 10, 10, false, inside)
	if got, want := p.Len(), 2; got != want {
		t.Fatalf("Len() = %d, want %d (outside tiles must still be visited when ignore_outside=false)", got, want)
	}
}

func TestNext_WrapsRoundRobin(t *testing.T) {
	placement := model.Placement{W: 20, H: 10}
	p := Build(placement, 10, 10, false, nil)
	if p.Len() != 2 {
		t.Fatalf("setup: expected 2 tiles, got %d", p.Len())
	}

	seen := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		tile, ok := p.Next()
		if !ok {
			t.Fatalf("Next() returned false unexpectedly at i=%d", i)
		}
		seen = append(seen, tile.X)
	}
	want := []int{0, 10, 0, 10}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen[%d] = %d, want %d (seen=%v)", i, seen[i], want[i], seen)
		}
	}
}

func TestNext_Empty(t *testing.T) {
	p := Build(model.Placement{W: 5, H: 5}, 10, 10, true, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	if _, ok := p.Next(); ok {
		t.Fatalf("expected Next() to report false for an all-outside plan")
	}
}

func TestStale(t *testing.T) {
	placement := model.Placement{W: 20, H: 10}
	inside := make([]byte, 20*10)
	p := Build(placement, 10, 10, true, inside)

	if p.Stale(placement, 10, 10, true, inside) {
		t.Fatalf("expected Plan built from identical inputs to be fresh")
	}
	if !p.Stale(model.Placement{W: 30, H: 10}, 10, 10, true, inside) {
		t.Fatalf("expected placement change to mark Plan stale")
	}
	if !p.Stale(placement, 5, 10, true, inside) {
		t.Fatalf("expected tile size change to mark Plan stale")
	}
	if !p.Stale(placement, 10, 10, false, inside) {
		t.Fatalf("expected ignore_outside change to mark Plan stale")
	}

	changed := make([]byte, len(inside))
	copy(changed, inside)
	changed[0] = 1
	if !p.Stale(placement, 10, 10, true, changed) {
		t.Fatalf("expected mask change to mark Plan stale")
	}
}

func TestResetCursor(t *testing.T) {
	p := Build(model.Placement{W: 20, H: 10}, 10, 10, false, nil)
	p.Next()
	p.ResetCursor()
	tile, _ := p.Next()
	if tile.X != 0 {
		t.Fatalf("expected ResetCursor to rewind to first tile, got x=%d", tile.X)
	}
}
