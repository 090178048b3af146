package frame

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"bluescan/internal/imaging"
	"bluescan/internal/model"
)

// BootstrapTimeout bounds the initial page navigation — only paid once, at
// bootstrap.
const BootstrapTimeout = 60 * time.Second

// Headless is a Source backed by an external headless-browser CLI. It
// shells out to ScreenshotCmd (by default `playwright-capture`, called
// with --url, --viewport, --clip and --out): one process per capture, no
// persistent browser handle to manage from Go.
//
// The canvas's on-page size and the requested region's target size rarely
// match the screenshot's pixel size 1:1 (device pixel ratio, viewport
// scaling), so captured images are resampled with nearest-neighbor to the
// exact requested dimensions — exact pixel alignment matters more than
// smoothing here.
type Headless struct {
	URL           string
	ViewportW     int
	ViewportH     int
	ScreenshotCmd string // executable name, e.g. "playwright-capture"
	Log           zerolog.Logger

	bootstrapped bool
}

// NewHeadless builds a Headless source. The page is not opened until the
// first Fetch call (lazy initialization).
func NewHeadless(url string, viewportW, viewportH int, log zerolog.Logger) *Headless {
	return &Headless{
		URL:           url,
		ViewportW:     viewportW,
		ViewportH:     viewportH,
		ScreenshotCmd: "playwright-capture",
		Log:           log,
	}
}

// FetchFull captures the whole viewport and returns it resampled to
// exactly ViewportW×ViewportH.
func (h *Headless) FetchFull() (*model.Raster, error) {
	return h.FetchRegion(0, 0, h.ViewportW, h.ViewportH)
}

// FetchRegion captures a clipped region of the page and resamples it to
// exactly (w, h) pixels.
func (h *Headless) FetchRegion(x, y, w, h int) (*model.Raster, error) {
	if w <= 0 || h <= 0 {
		return nil, nil
	}

	ctx := context.Background()
	timeout := 10 * time.Second
	if !h.bootstrapped {
		timeout = BootstrapTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shot, err := h.capture(cctx, x, y, w, h)
	if err != nil {
		h.Log.Warn().Err(err).Msg("frame capture failed; tick will be skipped")
		return nil, nil
	}
	h.bootstrapped = true

	img, err := decodePNG(shot)
	if err != nil {
		return nil, fmt.Errorf("decoding captured frame: %w", err)
	}

	raster := imaging.RasterOf(img)
	if raster.W == w && raster.H == h {
		return raster, nil
	}
	return resampleNearest(raster, w, h), nil
}

func (h *Headless) capture(ctx context.Context, x, y, w, h int) ([]byte, error) {
	outFile, err := os.CreateTemp("", "bluescan-capture-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating capture tempfile: %w", err)
	}
	path := outFile.Name()
	outFile.Close()
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, h.ScreenshotCmd,
		"--url", h.URL,
		"--viewport", fmt.Sprintf("%dx%d", h.ViewportW, h.ViewportH),
		"--clip", fmt.Sprintf("%d,%d,%d,%d", x, y, w, h),
		"--out", path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", h.ScreenshotCmd, string(out), err)
	}
	return os.ReadFile(path)
}

func decodePNG(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

// resampleNearest resizes a raster to (dstW, dstH) by nearest-neighbor
// sampling.
func resampleNearest(src *model.Raster, dstW, dstH int) *model.Raster {
	dst := make([]byte, dstW*dstH*4)
	for dy := 0; dy < dstH; dy++ {
		sy := dy * src.H / dstH
		for dx := 0; dx < dstW; dx++ {
			sx := dx * src.W / dstW
			srcOff := (sy*src.W + sx) * 4
			dstOff := (dy*dstW + dx) * 4
			copy(dst[dstOff:dstOff+4], src.Pix[srcOff:srcOff+4])
		}
	}
	return &model.Raster{W: dstW, H: dstH, Pix: dst}
}
