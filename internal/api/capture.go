package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bluescan/internal/apperr"
	"bluescan/internal/geom"
	"bluescan/internal/imaging"
	"bluescan/internal/model"
)

type cornersRequest struct {
	Name    string    `json:"name"`
	Corners [4][2]int `json:"corners"`
	Mode    string    `json:"mode,omitempty"`
}

// postCorners creates a new artwork from four click-picked corners in one
// call, letting an operator trace an irregular mural instead of typing a
// bounding box by hand. Placement is the corners' bounding box; the
// polygon itself becomes the artwork's mask.
func (d Deps) postCorners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cornersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperr.New(apperr.BadInput, "name is required"))
		return
	}

	var pts [4]geom.Point
	for i, c := range req.Corners {
		pts[i] = geom.Point{X: c[0], Y: c[1]}
	}
	placement, mask, err := geom.BoundingBox(pts)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.BadInput, "invalid corners", err))
		return
	}

	mode := model.ModeBuild
	if req.Mode != "" {
		parsed, ok := model.ParseMode(req.Mode)
		if !ok {
			writeError(w, apperr.New(apperr.BadInput, "invalid mode"))
			return
		}
		mode = parsed
	}

	ctx := d.ctx(r)
	id, err := d.Store.CreateArtwork(ctx, req.Name, placement, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := d.Store.SaveMask(ctx, id, mask); err != nil {
		writeError(w, err)
		return
	}

	a, err := d.Store.GetArtwork(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d.viewOf(a))
}

type placeTLRequest struct {
	Name    string `json:"name"`
	TLX     int    `json:"tl_x"`
	TLY     int    `json:"tl_y"`
	DataURL string `json:"data_url"`
}

// postPlaceTL creates a new artwork from a top-left corner plus a template
// image in one call: the placement's width and height are derived from the
// decoded image itself, not taken on faith from the request body, so a
// client can never register a size that doesn't match what it uploaded.
func (d Deps) postPlaceTL(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req placeTLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperr.New(apperr.BadInput, "name is required"))
		return
	}
	if req.DataURL == "" {
		writeError(w, apperr.New(apperr.BadInput, "data_url is required"))
		return
	}

	raster, err := imaging.DecodeDataURL(req.DataURL)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.BadInput, "invalid template image", err))
		return
	}
	placement := model.Placement{X: req.TLX, Y: req.TLY, W: raster.W, H: raster.H}

	ctx := d.ctx(r)
	id, err := d.Store.CreateArtwork(ctx, req.Name, placement, model.ModeBuild)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := d.Store.SaveTemplate(ctx, id, raster); err != nil {
		writeError(w, err)
		return
	}

	a, err := d.Store.GetArtwork(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d.viewOf(a))
}

type imageRequest struct {
	Image string `json:"image"` // data URL
}

func (d Deps) postTemplate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	d.captureInto(w, r, ps, d.Store.SaveTemplate)
}

func (d Deps) postGround(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	d.captureInto(w, r, ps, d.Store.SaveGround)
}

// captureInto decodes an uploaded data-URL image (or, if none is supplied,
// snapshots the live frame over the artwork's placement) and stores it via
// save. Both /template and /ground follow this same shape, differing only
// in where the pixels end up.
func (d Deps) captureInto(w http.ResponseWriter, r *http.Request, ps httprouter.Params, save func(ctx context.Context, id int64, raster *model.Raster) error) {
	id, err := parseID(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx := d.ctx(r)

	var req imageRequest
	_ = decodeJSON(r, &req) // a missing/empty body just means "capture live"

	var raster *model.Raster
	if req.Image != "" {
		raster, err = imaging.DecodeDataURL(req.Image)
		if err != nil {
			writeError(w, apperr.Wrap(apperr.BadInput, "invalid image", err))
			return
		}
	} else {
		a, err := d.Store.GetArtwork(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		raster, err = d.Frame.FetchRegion(a.Placement.X, a.Placement.Y, a.Placement.W, a.Placement.H)
		if err != nil {
			writeError(w, apperr.Wrap(apperr.BackendUnavailable, "capturing live frame", err))
			return
		}
		if raster == nil {
			writeError(w, apperr.New(apperr.BackendUnavailable, "canvas currently unavailable"))
			return
		}
	}

	if err := save(ctx, id, raster); err != nil {
		writeError(w, err)
		return
	}
	a, err := d.Store.GetArtwork(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.viewOf(a))
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// postMode switches an artwork between build and protect. Moving from
// build into protect mode without a ground snapshot yet tries once to
// capture one from the live frame first. If the frame source cannot
// supply it, a warning is logged and the mode still changes, leaving the
// artwork without ground.
func (d Deps) postMode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	var req modeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	mode, ok := model.ParseMode(req.Mode)
	if !ok {
		writeError(w, apperr.New(apperr.BadInput, "invalid mode"))
		return
	}

	ctx := d.ctx(r)
	a, err := d.Store.GetArtwork(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if mode == model.ModeProtect && a.Mode == model.ModeBuild && !a.HasGround {
		if snap, ferr := d.Frame.FetchRegion(a.Placement.X, a.Placement.Y, a.Placement.W, a.Placement.H); ferr == nil && snap != nil {
			if err := d.Store.SaveGround(ctx, id, snap); err != nil {
				writeError(w, err)
				return
			}
		} else {
			d.Log.Warn().Err(ferr).Int64("artwork", id).Msg("ground auto-capture on protect failed; continuing without ground")
		}
	}

	if err := d.Store.UpdateMode(ctx, id, mode); err != nil {
		writeError(w, err)
		return
	}
	a, err = d.Store.GetArtwork(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.viewOf(a))
}
