package api

import (
	"fmt"
	"image"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bluescan/internal/apperr"
	"bluescan/internal/encode"
	"bluescan/internal/imaging"
	"bluescan/internal/model"
)

// getSnapshot serves a stored reference raster (template/ground/baseline/
// mask) back as a downloadable image, so an operator can eyeball what
// bluescan currently thinks an artwork should look like.
func (d Deps) getSnapshot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := parseID(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	kind := r.URL.Query().Get("kind")
	format := r.URL.Query().Get("format")

	ctx := d.ctx(r)
	var raster *model.Raster
	switch kind {
	case "template", "":
		raster, err = d.Store.LoadTemplate(ctx, id)
	case "ground":
		raster, err = d.Store.LoadGround(ctx, id)
	case "baseline":
		raster, err = d.Store.LoadBaseline(ctx, id)
	case "mask":
		raster, err = d.Store.LoadMask(ctx, id)
	default:
		writeError(w, apperr.New(apperr.BadInput, "kind must be one of template, ground, baseline, mask"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if raster == nil {
		writeError(w, apperr.New(apperr.NotFound, fmt.Sprintf("no %s captured for artwork %d", orTemplate(kind), id)))
		return
	}

	enc, err := encode.NewEncoder(format, 90)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.BadInput, "invalid format", err))
		return
	}

	img := rasterToImage(kind, raster)
	data, err := enc.Encode(img)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.Internal, "encoding snapshot", err))
		return
	}

	w.Header().Set("Content-Type", "image/"+enc.Format())
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func orTemplate(kind string) string {
	if kind == "" {
		return "template"
	}
	return kind
}

// rasterToImage converts a raster to an image.Image for encoding. A mask
// raster is one byte per pixel (coverage); everything else is RGBA.
func rasterToImage(kind string, r *model.Raster) image.Image {
	if kind == "mask" {
		gray := image.NewGray(image.Rect(0, 0, r.W, r.H))
		copy(gray.Pix, r.Pix)
		return gray
	}
	return imaging.ToImage(r)
}
