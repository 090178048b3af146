// Package cache memoizes decoded reference rasters (template/ground/
// baseline/mask) so the scheduler's hot per-tile loop doesn't round-trip
// SQLite every tick. Keyed on the raster's Fingerprint, so a capture that
// replaces a reference image invalidates its own cache entry for free —
// no explicit bust call needed.
package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"bluescan/internal/model"
)

// Kind distinguishes the four raster roles an artwork can have cached.
type Kind int

const (
	KindTemplate Kind = iota
	KindGround
	KindBaseline
	KindMask
)

type key struct {
	artworkID int64
	kind      Kind
	fp        model.Fingerprint
}

// Rasters is an LRU cache of decoded *model.Raster values.
type Rasters struct {
	lru *lru.Cache
}

// New builds a Rasters cache holding up to size entries. size is a count
// of decoded rasters, not bytes — callers size it to roughly
// 4 * artwork-count, enough to hold every reference for every tracked
// artwork without evicting under normal operation.
func New(size int) (*Rasters, error) {
	l, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Rasters{lru: l}, nil
}

// Get returns the cached raster for (artworkID, kind, fp) if present.
func (c *Rasters) Get(artworkID int64, kind Kind, fp model.Fingerprint) (*model.Raster, bool) {
	v, ok := c.lru.Get(key{artworkID, kind, fp})
	if !ok {
		return nil, false
	}
	return v.(*model.Raster), true
}

// Put stores a decoded raster under (artworkID, kind, fp).
func (c *Rasters) Put(artworkID int64, kind Kind, fp model.Fingerprint, r *model.Raster) {
	c.lru.Add(key{artworkID, kind, fp}, r)
}

// Forget drops every cached entry for an artwork, e.g. on deletion.
func (c *Rasters) Forget(artworkID int64) {
	for _, k := range c.lru.Keys() {
		if kk, ok := k.(key); ok && kk.artworkID == artworkID {
			c.lru.Remove(k)
		}
	}
}
