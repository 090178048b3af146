// Package config holds the singleton tunable record and its clamping
// rules: a flat struct of knobs plus a small validating constructor.
package config

import (
	"fmt"

	"bluescan/internal/model"
)

// Config is the singleton monitor configuration row.
type Config struct {
	GuildID        string
	ChannelID      string
	DiscordWebhook string

	PollMS int

	ScanHZ               float64
	Tolerance            int
	SuspicionThreshold   int
	DegradationThreshold int
	Stride               int
	StagedScan           bool
	TileW                int
	TileH                int
	TilesPerTick         int // preserved for API compatibility; unused by the scheduler
	TilesGlobalPerTick   int
	OneTilePerArtwork    bool
	IgnoreOutside        bool
	DetourageMode        model.DetourageMode
}

// Default returns the built-in baseline configuration, used as the seed
// record on first boot when no TOML seed file is given or the file is
// absent. An unreadable seed file is an error, not a fallback.
func Default() Config {
	return Config{
		PollMS:               2000,
		ScanHZ:               1.0,
		Tolerance:            8,
		SuspicionThreshold:   5,
		DegradationThreshold: 30,
		Stride:               1,
		StagedScan:           true,
		TileW:                100,
		TileH:                100,
		TilesPerTick:         1,
		TilesGlobalPerTick:   64,
		OneTilePerArtwork:    true,
		IgnoreOutside:        true,
		DetourageMode:        model.DetourageAlphaOnly,
	}
}

// Clamp applies the integer/enum clamps in place and returns
// an error if an unclampable field (DetourageMode) is invalid.
func (c *Config) Clamp() error {
	if c.ScanHZ < 0.2 {
		c.ScanHZ = 0.2
	}
	if c.Stride < 1 {
		c.Stride = 1
	}
	if c.TileW < 10 {
		c.TileW = 10
	} else if c.TileW > 1000 {
		c.TileW = 1000
	}
	if c.TileH < 10 {
		c.TileH = 10
	} else if c.TileH > 1000 {
		c.TileH = 1000
	}
	if c.TilesPerTick < 1 {
		c.TilesPerTick = 1
	}
	if c.TilesGlobalPerTick < 1 {
		c.TilesGlobalPerTick = 1
	}
	if _, ok := model.ParseDetourageMode(string(c.DetourageMode)); !ok {
		return fmt.Errorf("invalid detourage_mode %q", c.DetourageMode)
	}
	return nil
}

// Period is the scheduler's inter-tick sleep duration.
func (c Config) Period() float64 {
	p := 1.0 / c.ScanHZ
	if p < 0.2 {
		p = 0.2
	}
	return p
}
