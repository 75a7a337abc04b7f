// Package tilecache provides the two process-wide, TTL-bounded LRU
// caches shared by every request: pre-tiled full-frame texture sheets
// and per-bin orientation masks. Both are pure functions of their
// keys, so concurrent producers for the same key computing twice
// under a cache miss is tolerated rather than locked out.
package tilecache

import (
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	tilesMaxEntries = 64
	tilesTTL        = 300 * time.Second

	masksMaxEntries = 128
	masksTTL        = 120 * time.Second
)

// TileKind distinguishes the two families of tiled sheet this cache
// holds.
type TileKind string

const (
	KindThread TileKind = "thread"
	KindHatch  TileKind = "hatch"
)

// TileKey identifies a full-frame tiled sheet: a texture kind,
// rotation/bin index (0 for hatch, which has no angle), and the
// output dimensions it was tiled to.
type TileKey struct {
	Kind     TileKind
	AngleBin int
	W, H     int
}

// MaskKey identifies a per-bin orientation mask, fingerprinted by a
// signature string derived from the orientation source so stale masks
// from a different OrientationBins buffer never collide with a key of
// the same (bin, W, H).
type MaskKey struct {
	Bin       int
	W, H      int
	Signature string
}

// Cache holds the tile-sheet and mask LRUs. Values are raw byte
// buffers (RGBA tile sheets or 1-byte-per-pixel masks). Get returns the
// cached slice itself, not a copy, so callers must treat returned slices
// as immutable borrows, never mutate in place.
type Cache struct {
	tiles  *lru.LRU[TileKey, []byte]
	masks  *lru.LRU[MaskKey, []byte]
	logger *slog.Logger
}

// New constructs an empty Cache with its own independent LRUs. Tests
// that need cache isolation should construct a fresh Cache rather than
// sharing one across cases.
func New() *Cache {
	return &Cache{
		tiles: lru.NewLRU[TileKey, []byte](tilesMaxEntries, nil, tilesTTL),
		masks: lru.NewLRU[MaskKey, []byte](masksMaxEntries, nil, masksTTL),
	}
}

// SetLogger attaches a logger used to report tile/mask hit and miss
// decisions at [slog.LevelDebug]. The caller (pipeline.go) re-attaches
// its current logger at the start of every request; a nil logger
// disables reporting for callers that construct a Cache directly.
func (c *Cache) SetLogger(l *slog.Logger) {
	c.logger = l
}

// GetTile returns a cached tile sheet and whether it was present.
func (c *Cache) GetTile(key TileKey) ([]byte, bool) {
	v, ok := c.tiles.Get(key)
	if c.logger != nil {
		c.logger.Debug("tile cache lookup", "kind", key.Kind, "angleBin", key.AngleBin, "hit", ok)
	}
	return v, ok
}

// PutTile stores a tile sheet under key, evicting the oldest entry if
// the cache is at capacity.
func (c *Cache) PutTile(key TileKey, sheet []byte) {
	c.tiles.Add(key, sheet)
}

// GetMask returns a cached orientation mask and whether it was
// present.
func (c *Cache) GetMask(key MaskKey) ([]byte, bool) {
	v, ok := c.masks.Get(key)
	if c.logger != nil {
		c.logger.Debug("mask cache lookup", "bin", key.Bin, "signature", key.Signature, "hit", ok)
	}
	return v, ok
}

// PutMask stores an orientation mask under key.
func (c *Cache) PutMask(key MaskKey, mask []byte) {
	c.masks.Add(key, mask)
}

// TileLen and MaskLen report current occupancy, used by tests to
// assert eviction behavior without reaching into internals.
func (c *Cache) TileLen() int { return c.tiles.Len() }
func (c *Cache) MaskLen() int { return c.masks.Len() }
