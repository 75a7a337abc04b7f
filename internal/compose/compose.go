// Package compose layers the quantized base, hatch, per-bin thread
// tiles, edge overlay, and dashed rim stitch into the final RGBA
// image, in the fixed order the spec treats as load-bearing: hatch
// underneath, thread above hatch, edges above thread, rim above
// edges.
package compose

import (
	"github.com/stitchline/embroidery/internal/blend"
	"github.com/stitchline/embroidery/internal/raster"
	"github.com/stitchline/embroidery/internal/texture"
	"github.com/stitchline/embroidery/internal/tilecache"
)

// Input bundles everything the Compositor needs for one request.
type Input struct {
	Base            *raster.Raster // QuantizedImage, 4-channel
	Bank            *texture.Bank
	Edges           *raster.Raster // dashed, 1-channel
	RimBand         *raster.Raster // 1-channel
	OrientationBins *raster.Raster // 1-channel
	ThreadThickness int
	BorderStitch    bool
	BorderWidth     int
	Cache           *tilecache.Cache
}

// Composite runs the fixed layer stack and returns the resulting RGBA
// image at the base's resolution.
func Composite(in Input) *raster.Raster {
	w, h := in.Base.W, in.Base.H
	out := in.Base.Clone()

	alphaMask := extractAlphaMask(in.Base)

	hatchSheet := tileSheet(in.Cache, tilecache.TileKey{Kind: tilecache.KindHatch, W: w, H: h}, in.Bank.Hatch)
	blendLayerMasked(out, hatchSheet, alphaMask, blend.MultiplyRGB)

	for b, tile := range in.Bank.Tiles {
		threadSheet := tileSheet(in.Cache, tilecache.TileKey{Kind: tilecache.KindThread, AngleBin: b, W: w, H: h}, tile)
		binMask := binEqualityMask(in.Cache, in.OrientationBins, b, w, h)
		blendLayerMasked(out, threadSheet, binMask, blend.OverlayRGB)
	}

	blendGrayscaleOverlay(out, in.Edges)

	if in.BorderStitch && in.BorderWidth > 2 {
		rimMask := dashedRimMask(in.RimBand, in.BorderWidth)
		blendWhiteOverlay(out, rimMask)
	}

	return out
}

func extractAlphaMask(base *raster.Raster) []byte {
	return base.Plane(3).Pix
}

// tileSheet repeats src (a small RGBA raster) to cover (w,h), caching
// the resulting full-frame sheet under key.
func tileSheet(c *tilecache.Cache, key tilecache.TileKey, src *raster.Raster) []byte {
	if cached, ok := c.GetTile(key); ok {
		return cached
	}
	sheet := make([]byte, key.W*key.H*4)
	for y := 0; y < key.H; y++ {
		sy := y % src.H
		for x := 0; x < key.W; x++ {
			sx := x % src.W
			srcOff := src.Offset(sx, sy)
			dstOff := (y*key.W + x) * 4
			copy(sheet[dstOff:dstOff+4], src.Pix[srcOff:srcOff+4])
		}
	}
	c.PutTile(key, sheet)
	return sheet
}

func binEqualityMask(c *tilecache.Cache, bins *raster.Raster, b, w, h int) []byte {
	key := tilecache.MaskKey{Bin: b, W: w, H: h, Signature: "bins"}
	if cached, ok := c.GetMask(key); ok {
		return cached
	}
	mask := make([]byte, w*h)
	for i, v := range bins.Pix {
		if int(v) == b {
			mask[i] = 255
		}
	}
	c.PutMask(key, mask)
	return mask
}

// blendLayerMasked blends sheet (an RGBA tile-sheet) into dst's RGB
// channels using fn, restricted to pixels where mask is nonzero via a
// linear mix weighted by (mask * sheet alpha).
func blendLayerMasked(dst *raster.Raster, sheet []byte, mask []byte, fn func(base, src [3]uint8) [3]uint8) {
	for i := 0; i < dst.W*dst.H; i++ {
		m := mask[i]
		if m == 0 {
			continue
		}
		sheetOff := i * 4
		weight := blend.Multiply(m, sheet[sheetOff+3])
		if weight == 0 {
			continue
		}
		dstOff := i * 4
		base := [3]uint8{dst.Pix[dstOff], dst.Pix[dstOff+1], dst.Pix[dstOff+2]}
		src := [3]uint8{sheet[sheetOff], sheet[sheetOff+1], sheet[sheetOff+2]}
		blended := fn(base, src)
		for c := 0; c < 3; c++ {
			dst.Pix[dstOff+c] = blend.Mix(base[c], blended[c], weight)
		}
	}
}

// blendGrayscaleOverlay treats a 1-channel plane's value as both the
// overlay source and its own coverage weight.
func blendGrayscaleOverlay(dst *raster.Raster, plane *raster.Raster) {
	for i := 0; i < dst.W*dst.H; i++ {
		v := plane.Pix[i]
		if v == 0 {
			continue
		}
		dstOff := i * 4
		base := [3]uint8{dst.Pix[dstOff], dst.Pix[dstOff+1], dst.Pix[dstOff+2]}
		blended := blend.OverlayRGB(base, [3]uint8{v, v, v})
		for c := 0; c < 3; c++ {
			dst.Pix[dstOff+c] = blend.Mix(base[c], blended[c], v)
		}
	}
}

func blendWhiteOverlay(dst *raster.Raster, mask []byte) {
	for i := 0; i < dst.W*dst.H; i++ {
		m := mask[i]
		if m == 0 {
			continue
		}
		dstOff := i * 4
		base := [3]uint8{dst.Pix[dstOff], dst.Pix[dstOff+1], dst.Pix[dstOff+2]}
		blended := blend.OverlayRGB(base, [3]uint8{255, 255, 255})
		for c := 0; c < 3; c++ {
			dst.Pix[dstOff+c] = blend.Mix(base[c], blended[c], m)
		}
	}
}

// dashedRimMask restricts RimBand to a dashed pattern along x with
// period max(4, 2*borderWidth), independent of the edge layer's own
// dash period. borderWidth (border.width) governs the rim stitch's
// own width/period rather than ThreadThickness, so a caller-supplied
// border.width distinct from threadThickness actually changes the
// rim's appearance.
func dashedRimMask(rim *raster.Raster, borderWidth int) []byte {
	period := 2 * borderWidth
	if period < 4 {
		period = 4
	}
	out := make([]byte, rim.W*rim.H)
	for y := 0; y < rim.H; y++ {
		for x := 0; x < rim.W; x++ {
			i := y*rim.W + x
			if rim.Pix[i] == 0 {
				continue
			}
			if (x/period)%2 == 0 {
				out[i] = 255
			}
		}
	}
	return out
}
