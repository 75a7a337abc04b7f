// Package quantize reduces a normalized image to a small palette and
// produces a full-resolution indexed-color raster, using a fast
// frequency-bucket approximation rather than an exact clustering
// algorithm (k-means, median-cut). The approximation trades optimal
// palette selection for a single linear pass over a downscaled,
// subsampled copy of the image.
package quantize

import (
	"errors"
	"sort"

	"github.com/stitchline/embroidery/internal/numeric"
	"github.com/stitchline/embroidery/internal/raster"
)

const (
	downscaleMaxDim = 400
	sampleStride    = 4
	roundTo         = 16
)

// ErrEmptyImage is returned when Quantize is given a zero-dimension
// raster. Callers at the package boundary translate this into an
// InvalidInput error.
var ErrEmptyImage = errors.New("empty image")

// Color is an (r,g,b,a) palette entry.
type Color [4]byte

// Result is a quantized image plus the palette it was built from.
type Result struct {
	Image   *raster.Raster // same channel count as input
	Palette []Color        // ordered, most frequent first
}

// Quantize reduces img to at most k colors, 2 <= k <= 12 enforced by
// the caller during option resolution. Alpha is preserved unchanged
// from the input at every pixel; only RGB is remapped.
func Quantize(img *raster.Raster, k int) (*Result, error) {
	if img.W == 0 || img.H == 0 {
		return nil, ErrEmptyImage
	}

	dw, dh := numeric.FitInside(img.W, img.H, downscaleMaxDim, downscaleMaxDim)
	small := numeric.ResizeNearest(img.Pix, img.Channels, img.W, img.H, dw, dh)

	type bucket struct {
		key   Color
		count int
	}
	index := make(map[Color]int)
	var buckets []bucket

	for y := 0; y < dh; y += sampleStride {
		for x := 0; x < dw; x += sampleStride {
			off := (y*dw + x) * img.Channels
			px := small[off : off+img.Channels]
			key := roundColor(px)
			if i, ok := index[key]; ok {
				buckets[i].count++
				continue
			}
			index[key] = len(buckets)
			buckets = append(buckets, bucket{key: key, count: 1})
		}
	}

	// Stable sort preserves first-insertion order among equal counts,
	// matching the spec's tie-break rule.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].count > buckets[j].count
	})

	if k > len(buckets) {
		k = len(buckets)
	}
	if k < 1 {
		k = 1
	}
	palette := make([]Color, k)
	for i := 0; i < k; i++ {
		palette[i] = buckets[i].key
	}

	out := raster.New(img.W, img.H, img.Channels)
	for i := 0; i < len(img.Pix); i += img.Channels {
		px := img.Pix[i : i+img.Channels]
		nearest := nearestColor(px, palette)
		copy(out.Pix[i:i+img.Channels], nearest[:])
		if img.Channels == 4 {
			out.Pix[i+3] = px[3] // preserve input alpha unchanged
		}
	}

	return &Result{Image: out, Palette: palette}, nil
}

func roundColor(px []byte) Color {
	var c Color
	for i := 0; i < 3 && i < len(px); i++ {
		c[i] = roundByte(px[i])
	}
	if len(px) >= 4 {
		c[3] = px[3]
	} else {
		c[3] = 255
	}
	return c
}

func roundByte(v byte) byte {
	r := (int(v) + roundTo/2) / roundTo * roundTo
	if r > 255 {
		r = 255
	}
	return byte(r)
}

func nearestColor(px []byte, palette []Color) Color {
	best := palette[0]
	bestDist := sqDist(px, best)
	for _, c := range palette[1:] {
		d := sqDist(px, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func sqDist(px []byte, c Color) int {
	dr := int(px[0]) - int(c[0])
	dg := int(px[1]) - int(c[1])
	db := int(px[2]) - int(c[2])
	return dr*dr + dg*dg + db*db
}
