// Package raster provides the core pixel-buffer type shared by every stage
// of the embroidery pipeline.
//
// It plays the same role that Pixmap plays in a general-purpose 2D graphics
// library: a rectangular, row-major byte buffer that implements image.Image
// so it can be decoded from and encoded to standard formats. Unlike a
// graphics-context pixmap, a Raster here is not tied to 4-channel RGBA — the
// pipeline also needs 1-channel binary maps (edges, rim bands, orientation
// bins), so the channel count is a field rather than an assumption.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Raster is a rectangular pixel buffer, row-major, top-to-bottom, with
// Channels bytes per pixel (1, 3, or 4).
type Raster struct {
	W, H     int
	Channels int
	Pix      []byte
}

// New allocates a zeroed raster of the given dimensions and channel count.
func New(w, h, channels int) *Raster {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Raster{
		W:        w,
		H:        h,
		Channels: channels,
		Pix:      make([]byte, w*h*channels),
	}
}

// At returns the raw channel bytes for pixel (x, y). The returned slice
// aliases the raster's backing array; callers must not retain it across
// mutation of r.
func (r *Raster) At(x, y int) []byte {
	i := r.Offset(x, y)
	return r.Pix[i : i+r.Channels]
}

// Offset returns the index into Pix of the first byte of pixel (x, y).
func (r *Raster) Offset(x, y int) int {
	return (y*r.W + x) * r.Channels
}

// InBounds reports whether (x, y) lies within the raster.
func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && x < r.W && y >= 0 && y < r.H
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	out := &Raster{W: r.W, H: r.H, Channels: r.Channels, Pix: make([]byte, len(r.Pix))}
	copy(out.Pix, r.Pix)
	return out
}

// ToNRGBA converts the raster to a standard image.NRGBA, padding or dropping
// channels as needed. 1-channel rasters are treated as grayscale with full
// opacity; 3-channel rasters get alpha=255.
func (r *Raster) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.W, r.H))
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			px := r.At(x, y)
			var c color.NRGBA
			switch r.Channels {
			case 1:
				c = color.NRGBA{R: px[0], G: px[0], B: px[0], A: 255}
			case 3:
				c = color.NRGBA{R: px[0], G: px[1], B: px[2], A: 255}
			default:
				c = color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// FromImage creates a 4-channel RGBA raster from any image.Image, forcing
// an alpha channel to exist (opaque 255 when the source has none).
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := New(w, h, 4)

	// draw.Draw into a concrete NRGBA first so odd color models (paletted,
	// ycbcr, etc.) are normalized in one pass rather than per pixel.
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	copy(out.Pix, nrgba.Pix)
	return out
}

// Plane extracts a single channel as its own 1-channel raster.
func (r *Raster) Plane(channel int) *Raster {
	if channel < 0 || channel >= r.Channels {
		panic(fmt.Sprintf("raster: channel %d out of range [0,%d)", channel, r.Channels))
	}
	out := New(r.W, r.H, 1)
	for i, p := 0, 0; i < len(r.Pix); i += r.Channels {
		out.Pix[p] = r.Pix[i+channel]
		p++
	}
	return out
}

// FloatField is a per-pixel float64 plane, used for continuous values such
// as the orientation field and distance-transform output where 8-bit
// quantization would lose the information downstream consumers need.
type FloatField struct {
	W, H int
	Data []float64
}

// NewFloatField allocates a zeroed float field.
func NewFloatField(w, h int) *FloatField {
	return &FloatField{W: w, H: h, Data: make([]float64, w*h)}
}

// At returns the value at (x, y).
func (f *FloatField) At(x, y int) float64 {
	return f.Data[y*f.W+x]
}

// Set assigns the value at (x, y).
func (f *FloatField) Set(x, y int, v float64) {
	f.Data[y*f.W+x] = v
}
