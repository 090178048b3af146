package api

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"bluescan/internal/apperr"
	"bluescan/internal/model"
	"bluescan/internal/scheduler"
)

type artworkView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	W           int    `json:"w"`
	H           int    `json:"h"`
	Mode        string `json:"mode"`
	AddedAt     string `json:"added_at"`
	HasTemplate bool   `json:"has_template"`
	HasGround   bool   `json:"has_ground"`
	HasMask     bool   `json:"has_mask"`
	HasBaseline bool   `json:"has_baseline"`
	LastState   string `json:"last_state"`
}

func (d Deps) viewOf(a model.Artwork) artworkView {
	state := "none"
	if d.Scheduler != nil {
		state = d.Scheduler.ArtworkState(a.ID).String()
	}
	return artworkView{
		ID: a.ID, Name: a.Name,
		X: a.Placement.X, Y: a.Placement.Y, W: a.Placement.W, H: a.Placement.H,
		Mode: string(a.Mode), AddedAt: a.AddedAt,
		HasTemplate: a.HasTemplate, HasGround: a.HasGround, HasMask: a.HasMask, HasBaseline: a.HasBaseline,
		LastState: state,
	}
}

func (d Deps) listArtworks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := d.Store.ListArtworks(d.ctx(r))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]artworkView, len(list))
	for i, a := range list {
		views[i] = d.viewOf(a)
	}
	writeJSON(w, http.StatusOK, views)
}

type createArtworkRequest struct {
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	Mode string `json:"mode"`
}

func (d Deps) createArtwork(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createArtworkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperr.New(apperr.BadInput, "name is required"))
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
	placement := model.Placement{X: req.X, Y: req.Y, W: req.W, H: req.H}
	if placement.W <= 0 || placement.H <= 0 {
		writeError(w, apperr.New(apperr.BadInput, "w and h must be positive"))
		return
	}

	id, err := d.Store.CreateArtwork(d.ctx(r), req.Name, placement, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := d.Store.GetArtwork(d.ctx(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d.viewOf(a))
}

func (d Deps) deleteArtwork(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := d.Store.DeleteArtwork(d.ctx(r), id); err != nil {
		writeError(w, err)
		return
	}
	if d.Scheduler != nil {
		key := scheduler.ArtworkKey(id)
		d.Scheduler.Tracker.Forget(key)
		d.Scheduler.Refs.ForgetArtwork(key)
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(ps httprouter.Params) (int64, error) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.BadInput, "invalid artwork id", err)
	}
	return id, nil
}
