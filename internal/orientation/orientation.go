// Package orientation estimates a per-pixel local gradient direction,
// quantized into bins over the half-circle [0, π), plus a continuous
// scalar field for consumers that want a non-binned flow direction.
package orientation

import (
	"github.com/stitchline/embroidery/internal/numeric"
	"github.com/stitchline/embroidery/internal/raster"
)

// Method selects how the bin count is derived; lic is accepted only
// as a bin-count alias, per the pipeline's documented ambiguity around
// continuous-flow rendering.
type Method int

const (
	MethodBinned Method = iota
	MethodLIC
)

// Mode mirrors edgedetect.Mode: logo images analyze at a smaller size
// and with fewer bins than photos.
type Mode int

const (
	ModePhoto Mode = iota
	ModeLogo
)

// Result bundles the binned orientation map (upscaled to input
// resolution) and the continuous field (left at analysis resolution,
// since only LIC-style consumers want it and none are implemented).
type Result struct {
	Bins  *raster.Raster     // 1 channel, input resolution, values in [0,N)
	Field *raster.FloatField // analysis resolution
	N     int
}

func analysisSize(mode Mode) int {
	if mode == ModeLogo {
		return 300
	}
	return 400
}

func binCount(method Method, mode Mode) int {
	switch method {
	case MethodLIC:
		if mode == ModeLogo {
			return 8
		}
		return 12
	default:
		if mode == ModeLogo {
			return 4
		}
		return 6
	}
}

// Estimate runs the full downscale -> grayscale -> blur -> Sobel ->
// bin pipeline over a quantized image.
func Estimate(img *raster.Raster, method Method, mode Mode) *Result {
	w, h := img.W, img.H
	n := binCount(method, mode)

	if w == 0 || h == 0 {
		return &Result{Bins: raster.New(w, h, 1), Field: raster.NewFloatField(0, 0), N: n}
	}

	size := analysisSize(mode)
	dw, dh := numeric.FitInside(w, h, size, size)

	down := numeric.ResizeNearest(img.Pix, img.Channels, w, h, dw, dh)
	gray := numeric.ToGrayscale(down, img.Channels, dw, dh)
	blurred := numeric.GaussianBlur3x3(gray, dw, dh)
	gx, gy := numeric.Sobel(blurred, dw, dh)

	binsSmall := numeric.BinsFromGradients(gx, gy, n)
	binsFull := numeric.ResizeNearest(binsSmall, 1, dw, dh, w, h)

	fieldValues := numeric.OrientationField(gx, gy)
	field := &raster.FloatField{W: dw, H: dh, Data: fieldValues}

	return &Result{
		Bins:  &raster.Raster{W: w, H: h, Channels: 1, Pix: binsFull},
		Field: field,
		N:     n,
	}
}
