package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"bluescan/internal/model"
)

// seedFile mirrors the shape of Config but with TOML tags the operator can
// hand-edit before first boot. Bools are pointers so an absent key can be
// told apart from an explicit false; any other field left unset (zero
// value) falls back to the built-in default (see LoadSeed).
type seedFile struct {
	GuildID              string  `toml:"guild_id"`
	ChannelID            string  `toml:"channel_id"`
	DiscordWebhook       string  `toml:"discord_webhook"`
	PollMS               int     `toml:"poll_ms"`
	ScanHZ               float64 `toml:"scan_hz"`
	Tolerance            int     `toml:"tolerance"`
	SuspicionThreshold   int     `toml:"suspicion_threshold"`
	DegradationThreshold int     `toml:"degradation_threshold"`
	Stride               int     `toml:"stride"`
	StagedScan           *bool   `toml:"staged_scan"`
	TileW                int     `toml:"tile_w"`
	TileH                int     `toml:"tile_h"`
	TilesPerTick         int     `toml:"tiles_per_tick"`
	TilesGlobalPerTick   int     `toml:"tiles_global_per_tick"`
	OneTilePerArtwork    *bool   `toml:"one_tile_per_artwork"`
	IgnoreOutside        *bool   `toml:"ignore_outside"`
	DetourageMode        string  `toml:"detourage_mode"`
}

// LoadSeed reads the BLUE_SCAN_CONFIG TOML file (if set and present) and
// overlays it onto the built-in Default(). It is used once, to populate the
// config row on first boot — after that, the DB row is
// authoritative and this file is never consulted again.
func LoadSeed(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	var seed seedFile
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return cfg, err
	}

	if seed.GuildID != "" {
		cfg.GuildID = seed.GuildID
	}
	if seed.ChannelID != "" {
		cfg.ChannelID = seed.ChannelID
	}
	if seed.DiscordWebhook != "" {
		cfg.DiscordWebhook = seed.DiscordWebhook
	}
	if seed.PollMS != 0 {
		cfg.PollMS = seed.PollMS
	}
	if seed.ScanHZ != 0 {
		cfg.ScanHZ = seed.ScanHZ
	}
	if seed.Tolerance != 0 {
		cfg.Tolerance = seed.Tolerance
	}
	if seed.SuspicionThreshold != 0 {
		cfg.SuspicionThreshold = seed.SuspicionThreshold
	}
	if seed.DegradationThreshold != 0 {
		cfg.DegradationThreshold = seed.DegradationThreshold
	}
	if seed.Stride != 0 {
		cfg.Stride = seed.Stride
	}
	if seed.StagedScan != nil {
		cfg.StagedScan = *seed.StagedScan
	}
	if seed.TileW != 0 {
		cfg.TileW = seed.TileW
	}
	if seed.TileH != 0 {
		cfg.TileH = seed.TileH
	}
	if seed.TilesPerTick != 0 {
		cfg.TilesPerTick = seed.TilesPerTick
	}
	if seed.TilesGlobalPerTick != 0 {
		cfg.TilesGlobalPerTick = seed.TilesGlobalPerTick
	}
	if seed.OneTilePerArtwork != nil {
		cfg.OneTilePerArtwork = *seed.OneTilePerArtwork
	}
	if seed.IgnoreOutside != nil {
		cfg.IgnoreOutside = *seed.IgnoreOutside
	}
	if mode, ok := model.ParseDetourageMode(seed.DetourageMode); ok {
		cfg.DetourageMode = mode
	}

	if err := cfg.Clamp(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
