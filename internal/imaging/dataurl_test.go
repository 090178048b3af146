package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidPNGDataURL(t *testing.T, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURL_RoundTrip(t *testing.T) {
	want := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	url := solidPNGDataURL(t, 4, 3, want)

	r, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if r.W != 4 || r.H != 3 {
		t.Fatalf("got size %dx%d, want 4x3", r.W, r.H)
	}
	if len(r.Pix) != 4*3*4 {
		t.Fatalf("got %d pixel bytes, want %d", len(r.Pix), 4*3*4)
	}
	for i := 0; i < len(r.Pix); i += 4 {
		got := [4]byte{r.Pix[i], r.Pix[i+1], r.Pix[i+2], r.Pix[i+3]}
		if got != [4]byte{want.R, want.G, want.B, want.A} {
			t.Fatalf("pixel %d = %v, want %v", i/4, got, want)
		}
	}
}

func TestDecodeDataURL_Malformed(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"no prefix", "image/png;base64,AAAA"},
		{"no comma", "data:image/png;base64"},
		{"not base64", "data:image/png;charset=utf8,AAAA"},
		{"not image mime", "data:text/plain;base64,AAAA"},
		{"bad base64 payload", "data:image/png;base64,not-base64!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeDataURL(tc.in); err == nil {
				t.Fatalf("expected an error for %q", tc.in)
			}
		})
	}
}

func TestIsDeface(t *testing.T) {
	pix := []byte{0xDE, 0xFA, 0xCE, 0x00, 0xDE, 0xFA, 0xCD, 0xFF}
	if !IsDeface(pix, 0) {
		t.Error("expected sentinel match regardless of alpha")
	}
	if IsDeface(pix, 4) {
		t.Error("expected no match when blue channel differs")
	}
}
