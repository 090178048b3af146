package frame

import "bluescan/internal/model"

// Memory is a synthetic Source backed by a single in-memory raster, set by
// the caller between ticks. It exists so the scheduler and comparator can
// be exercised without a real browser.
type Memory struct {
	Frame *model.Raster // nil means "currently unavailable"
}

// Set replaces the synthetic frame.
func (m *Memory) Set(f *model.Raster) { m.Frame = f }

// FetchFull returns the current synthetic frame, or (nil, nil) if unset.
func (m *Memory) FetchFull() (*model.Raster, error) {
	return m.Frame, nil
}

// FetchRegion returns the [x,y,w,h) sub-rectangle of the current synthetic
// frame, or (nil, nil) if unset.
func (m *Memory) FetchRegion(x, y, w, h int) (*model.Raster, error) {
	if m.Frame == nil {
		return nil, nil
	}
	return Sub(m.Frame, x, y, w, h), nil
}
