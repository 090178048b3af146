// Package imaging decodes the image payloads bluescan accepts over HTTP
// and provides the RGBA pixel helpers the comparator needs.
//
// Format decoding dispatches on a format tag: stdlib for png/jpeg,
// github.com/gen2brain/webp (a pure Go decoder, no cgo) for webp.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gen2brain/webp"

	"bluescan/internal/model"
)

// DefaceRGB is the sentinel template color marking "must remain ground".
// Alpha is ignored when matching it.
var DefaceRGB = [3]byte{0xDE, 0xFA, 0xCE}

// DecodeDataURL parses a "data:image/<type>;base64,<b64>" string and
// returns its pixels as a Raster. Any other shape is bad input.
func DecodeDataURL(s string) (*model.Raster, error) {
	const prefix = "data:"
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("malformed data URL: missing %q prefix", prefix)
	}
	rest := s[len(prefix):]

	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URL: missing comma")
	}
	meta, payload := rest[:comma], rest[comma+1:]

	mime, params, ok := strings.Cut(meta, ";")
	if !ok || params != "base64" {
		return nil, fmt.Errorf("malformed data URL: expected \";base64\" encoding, got %q", meta)
	}

	typ, ok := strings.CutPrefix(mime, "image/")
	if !ok {
		return nil, fmt.Errorf("malformed data URL: expected an image/* MIME type, got %q", mime)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URL: bad base64: %w", err)
	}

	img, err := decodeImage(raw, typ)
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", typ, err)
	}
	return RasterOf(img), nil
}

// decodeImage dispatches on the MIME subtype.
func decodeImage(data []byte, typ string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch typ {
	case "png":
		return png.Decode(r)
	case "jpeg", "jpg":
		return jpeg.Decode(r)
	case "webp":
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported image type %q", typ)
	}
}

// RasterOf converts any image.Image to a row-major RGBA Raster.
func RasterOf(img image.Image) *model.Raster {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 && rgba.Rect.Min == (image.Point{}) {
		return &model.Raster{W: rgba.Rect.Dx(), H: rgba.Rect.Dy(), Pix: rgba.Pix}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &model.Raster{W: w, H: h, Pix: dst.Pix}
}

// ToImage wraps a Raster as a stdlib *image.RGBA for interop with encoders
// and the gogpu/gg rasterizer.
func ToImage(r *model.Raster) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	copy(img.Pix, r.Pix)
	return img
}

// IsDeface reports whether a template pixel's RGB channels equal the
// deface sentinel. Alpha is ignored.
func IsDeface(pix []byte, off int) bool {
	return pix[off] == DefaceRGB[0] && pix[off+1] == DefaceRGB[1] && pix[off+2] == DefaceRGB[2]
}
