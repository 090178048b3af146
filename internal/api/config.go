package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bluescan/internal/apperr"
	"bluescan/internal/config"
	"bluescan/internal/model"
)

type configView struct {
	GuildID              string  `json:"guild_id"`
	ChannelID            string  `json:"channel_id"`
	DiscordWebhook       string  `json:"discord_webhook"`
	PollMS               int     `json:"poll_ms"`
	ScanHZ               float64 `json:"scan_hz"`
	Tolerance            int     `json:"tolerance"`
	SuspicionThreshold   int     `json:"suspicion_threshold"`
	DegradationThreshold int     `json:"degradation_threshold"`
	Stride               int     `json:"stride"`
	StagedScan           bool    `json:"staged_scan"`
	TileW                int     `json:"tile_w"`
	TileH                int     `json:"tile_h"`
	TilesPerTick         int     `json:"tiles_per_tick"`
	TilesGlobalPerTick   int     `json:"tiles_global_per_tick"`
	OneTilePerArtwork    bool    `json:"one_tile_per_artwork"`
	IgnoreOutside        bool    `json:"ignore_outside"`
	DetourageMode        string  `json:"detourage_mode"`
}

func viewOfConfig(c config.Config) configView {
	return configView{
		GuildID: c.GuildID, ChannelID: c.ChannelID, DiscordWebhook: c.DiscordWebhook,
		PollMS: c.PollMS, ScanHZ: c.ScanHZ, Tolerance: c.Tolerance,
		SuspicionThreshold: c.SuspicionThreshold, DegradationThreshold: c.DegradationThreshold,
		Stride: c.Stride, StagedScan: c.StagedScan, TileW: c.TileW, TileH: c.TileH,
		TilesPerTick: c.TilesPerTick, TilesGlobalPerTick: c.TilesGlobalPerTick,
		OneTilePerArtwork: c.OneTilePerArtwork, IgnoreOutside: c.IgnoreOutside,
		DetourageMode: string(c.DetourageMode),
	}
}

func (d Deps) currentConfig(r *http.Request) (config.Config, error) {
	cfg, ok, err := d.Store.LoadConfig(d.ctx(r))
	if err != nil {
		return config.Config{}, err
	}
	if !ok {
		return config.Default(), nil
	}
	return cfg, nil
}

func (d Deps) getConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cfg, err := d.currentConfig(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfConfig(cfg))
}

// postConfig replaces the whole config row. Partial updates are the
// client's job: GET, patch fields client-side, POST the result back.
func (d Deps) postConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var v configView
	if err := decodeJSON(r, &v); err != nil {
		writeError(w, err)
		return
	}
	mode, ok := model.ParseDetourageMode(v.DetourageMode)
	if !ok {
		writeError(w, apperr.New(apperr.BadInput, "invalid detourage_mode"))
		return
	}
	cfg := config.Config{
		GuildID: v.GuildID, ChannelID: v.ChannelID, DiscordWebhook: v.DiscordWebhook,
		PollMS: v.PollMS, ScanHZ: v.ScanHZ, Tolerance: v.Tolerance,
		SuspicionThreshold: v.SuspicionThreshold, DegradationThreshold: v.DegradationThreshold,
		Stride: v.Stride, StagedScan: v.StagedScan, TileW: v.TileW, TileH: v.TileH,
		TilesPerTick: v.TilesPerTick, TilesGlobalPerTick: v.TilesGlobalPerTick,
		OneTilePerArtwork: v.OneTilePerArtwork, IgnoreOutside: v.IgnoreOutside,
		DetourageMode: mode,
	}
	if err := cfg.Clamp(); err != nil {
		writeError(w, apperr.Wrap(apperr.BadInput, "invalid config", err))
		return
	}
	if err := d.Store.SaveConfig(d.ctx(r), cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOfConfig(cfg))
}

// startMonitor launches the scheduler loop against a background context:
// it must outlive this single HTTP request, which the request's own
// context does not.
func (d Deps) startMonitor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	d.Scheduler.Start(context.Background())
	writeJSON(w, http.StatusOK, map[string]bool{"running": d.Scheduler.Running()})
}

func (d Deps) stopMonitor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	d.Scheduler.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"running": d.Scheduler.Running()})
}
