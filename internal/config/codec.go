package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"bluescan/internal/model"
)

// wireFile is the TOML shape of a fully-populated Config, used to persist
// the live config row (unlike seedFile, every field here is always set, so
// plain bools suffice).
type wireFile struct {
	GuildID              string  `toml:"guild_id"`
	ChannelID            string  `toml:"channel_id"`
	DiscordWebhook       string  `toml:"discord_webhook"`
	PollMS               int     `toml:"poll_ms"`
	ScanHZ               float64 `toml:"scan_hz"`
	Tolerance            int     `toml:"tolerance"`
	SuspicionThreshold   int     `toml:"suspicion_threshold"`
	DegradationThreshold int     `toml:"degradation_threshold"`
	Stride               int     `toml:"stride"`
	StagedScan           bool    `toml:"staged_scan"`
	TileW                int     `toml:"tile_w"`
	TileH                int     `toml:"tile_h"`
	TilesPerTick         int     `toml:"tiles_per_tick"`
	TilesGlobalPerTick   int     `toml:"tiles_global_per_tick"`
	OneTilePerArtwork    bool    `toml:"one_tile_per_artwork"`
	IgnoreOutside        bool    `toml:"ignore_outside"`
	DetourageMode        string  `toml:"detourage_mode"`
}

// EncodeTOML serializes a Config to TOML text for storage.
func EncodeTOML(cfg Config) (string, error) {
	w := wireFile{
		GuildID: cfg.GuildID, ChannelID: cfg.ChannelID, DiscordWebhook: cfg.DiscordWebhook,
		PollMS: cfg.PollMS, ScanHZ: cfg.ScanHZ, Tolerance: cfg.Tolerance,
		SuspicionThreshold: cfg.SuspicionThreshold, DegradationThreshold: cfg.DegradationThreshold,
		Stride: cfg.Stride, StagedScan: cfg.StagedScan, TileW: cfg.TileW, TileH: cfg.TileH,
		TilesPerTick: cfg.TilesPerTick, TilesGlobalPerTick: cfg.TilesGlobalPerTick,
		OneTilePerArtwork: cfg.OneTilePerArtwork, IgnoreOutside: cfg.IgnoreOutside,
		DetourageMode: string(cfg.DetourageMode),
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(w); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DecodeTOML parses a config row back into a Config and clamps it.
func DecodeTOML(raw string) (Config, error) {
	var w wireFile
	if _, err := toml.Decode(raw, &w); err != nil {
		return Config{}, err
	}
	mode, ok := model.ParseDetourageMode(w.DetourageMode)
	if !ok {
		return Config{}, fmt.Errorf("stored config: invalid detourage_mode %q", w.DetourageMode)
	}
	cfg := Config{
		GuildID: w.GuildID, ChannelID: w.ChannelID, DiscordWebhook: w.DiscordWebhook,
		PollMS: w.PollMS, ScanHZ: w.ScanHZ, Tolerance: w.Tolerance,
		SuspicionThreshold: w.SuspicionThreshold, DegradationThreshold: w.DegradationThreshold,
		Stride: w.Stride, StagedScan: w.StagedScan, TileW: w.TileW, TileH: w.TileH,
		TilesPerTick: w.TilesPerTick, TilesGlobalPerTick: w.TilesGlobalPerTick,
		OneTilePerArtwork: w.OneTilePerArtwork, IgnoreOutside: w.IgnoreOutside,
		DetourageMode: mode,
	}
	if err := cfg.Clamp(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
