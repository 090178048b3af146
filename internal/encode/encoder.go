// Package encode serializes a raster back to a displayable image format,
// for the snapshot-download affordance on top of stored references
// (template/ground/baseline/mask). Decoding the other direction lives in
// internal/imaging, next to the domain types it produces.
package encode

import (
	"fmt"
	"image"
)

// Encoder turns an image into file bytes of one format.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
	Format() string
}

// NewEncoder builds an Encoder for the given format name.
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "jpeg", "jpg":
		return &JPEGEncoder{Quality: quality}, nil
	case "png", "":
		return &PNGEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %q (supported: png, jpeg)", format)
	}
}
