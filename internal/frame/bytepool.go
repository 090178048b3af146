package frame

import "sync"

// bufPools maps a buffer length to a *sync.Pool of byte slices. Tile sizes
// are few and stable within a run (one per distinct artwork tile_w×tile_h),
// so a tiny sync.Map of pools avoids a global mutex on the per-tile hot
// path.
var bufPools sync.Map

// getBuf returns a zeroed byte slice of exactly n bytes from the pool, or
// allocates a new one.
func getBuf(n int) []byte {
	if p, ok := bufPools.Load(n); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			buf := v.([]byte)
			clear(buf)
			return buf
		}
	}
	return make([]byte, n)
}

// putBuf returns a buffer obtained from getBuf for reuse.
func putBuf(buf []byte) {
	if buf == nil {
		return
	}
	n := len(buf)
	p, _ := bufPools.LoadOrStore(n, &sync.Pool{})
	p.(*sync.Pool).Put(buf)
}
