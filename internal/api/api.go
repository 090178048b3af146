// Package api exposes bluescan's control surface over HTTP: artwork CRUD,
// reference capture, mode switching, and monitor start/stop. Handler shape
// is one function per route with a shared writeJSON/writeError pair;
// routing itself uses julienschmidt/httprouter.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"bluescan/internal/apperr"
	"bluescan/internal/frame"
	"bluescan/internal/scheduler"
	"bluescan/internal/store"
)

// Deps bundles everything the handlers need.
type Deps struct {
	Store     *store.Store
	Scheduler *scheduler.Scheduler
	Frame     frame.Source
	Log       zerolog.Logger
}

// NewRouter builds the full route table, wrapped in CORS-allow-all
// middleware (no auth — bluescan's control plane is meant to sit behind an
// operator-only network boundary, per the non-goals).
func NewRouter(d Deps) http.Handler {
	r := httprouter.New()

	r.GET("/healthz", d.withCORS(d.healthz))

	r.GET("/config", d.withCORS(d.getConfig))
	r.POST("/config", d.withCORS(d.postConfig))

	r.GET("/artworks", d.withCORS(d.listArtworks))
	r.POST("/artworks", d.withCORS(d.createArtwork))
	r.DELETE("/artworks/:id", d.withCORS(d.deleteArtwork))

	// httprouter cannot register static /artworks/corners and
	// /artworks/place_tl beside the /artworks/:id wildcard, so both are
	// served through the wildcard and dispatched by name.
	r.POST("/artworks/:id", d.withCORS(func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		switch ps.ByName("id") {
		case "corners":
			d.postCorners(w, req, ps)
		case "place_tl":
			d.postPlaceTL(w, req, ps)
		default:
			http.NotFound(w, req)
		}
	}))
	r.POST("/artworks/:id/template", d.withCORS(d.postTemplate))
	r.POST("/artworks/:id/ground", d.withCORS(d.postGround))
	r.POST("/artworks/:id/mode", d.withCORS(d.postMode))
	r.GET("/artworks/:id/snapshot", d.withCORS(d.getSnapshot))

	r.POST("/monitor/start", d.withCORS(d.startMonitor))
	r.POST("/monitor/stop", d.withCORS(d.stopMonitor))

	return corsPreflight(r)
}

// corsPreflight answers bare OPTIONS requests that httprouter itself has
// no registered handler for (httprouter.GlobalOPTIONS would also work, but
// explicit is clearer about the allow-all posture).
func corsPreflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (d Deps) withCORS(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		setCORSHeaders(w)
		h(w, r, ps)
	}
}

func (d Deps) healthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (d Deps) ctx(r *http.Request) context.Context { return r.Context() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to a status via apperr and writes a uniform
// {"error": "..."} body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusOf(err), map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.BadInput, "decoding request body", err)
	}
	return nil
}
