package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solidImage(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewEncoder_PNG(t *testing.T) {
	enc, err := NewEncoder("png", 0)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	data, err := enc.Encode(solidImage(2, 2, color.RGBA{10, 20, 30, 255}))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding produced PNG: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected decoded size: %v", img.Bounds())
	}
}

func TestNewEncoder_JPEG(t *testing.T) {
	enc, err := NewEncoder("jpeg", 90)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	data, err := enc.Encode(solidImage(4, 4, color.RGBA{100, 100, 100, 255}))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decoding produced JPEG: %v", err)
	}
}

func TestNewEncoder_UnsupportedFormat(t *testing.T) {
	if _, err := NewEncoder("avif", 0); err == nil {
		t.Fatalf("expected an error for an unsupported format")
	}
}
