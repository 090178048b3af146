package config

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "scan_hz floor",
			in:   Config{ScanHZ: 0.01, Stride: 1, TileW: 100, TileH: 100, TilesPerTick: 1, TilesGlobalPerTick: 1, DetourageMode: "alpha_only"},
			want: Config{ScanHZ: 0.2, Stride: 1, TileW: 100, TileH: 100, TilesPerTick: 1, TilesGlobalPerTick: 1, DetourageMode: "alpha_only"},
		},
		{
			name: "tile size clamped both directions",
			in:   Config{ScanHZ: 1, Stride: 1, TileW: 1, TileH: 5000, TilesPerTick: 1, TilesGlobalPerTick: 1, DetourageMode: "polygon_only"},
			want: Config{ScanHZ: 1, Stride: 1, TileW: 10, TileH: 1000, TilesPerTick: 1, TilesGlobalPerTick: 1, DetourageMode: "polygon_only"},
		},
		{
			name: "budgets floor at 1",
			in:   Config{ScanHZ: 1, Stride: -5, TileW: 100, TileH: 100, TilesPerTick: 0, TilesGlobalPerTick: -3, DetourageMode: "alpha_or_polygon"},
			want: Config{ScanHZ: 1, Stride: 1, TileW: 100, TileH: 100, TilesPerTick: 1, TilesGlobalPerTick: 1, DetourageMode: "alpha_or_polygon"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in
			if err := got.Clamp(); err != nil {
				t.Fatalf("Clamp: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestClamp_InvalidDetourageMode(t *testing.T) {
	c := Default()
	c.DetourageMode = "sideways"
	if err := c.Clamp(); err == nil {
		t.Fatal("expected an error for an invalid detourage_mode")
	}
}

func TestPeriod(t *testing.T) {
	c := Default()
	c.ScanHZ = 10
	if got := c.Period(); got != 0.2 {
		t.Errorf("Period() = %v, want 0.2 floor", got)
	}
	c.ScanHZ = 0.1
	if got := c.Period(); got != 10 {
		t.Errorf("Period() = %v, want 10", got)
	}
}
