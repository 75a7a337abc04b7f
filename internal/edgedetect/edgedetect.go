// Package edgedetect extracts a dashed binary edge map and a rim band
// from a quantized image, composed from the numeric primitives in
// internal/numeric the same way a real adaptive-threshold edge
// pipeline chains grayscale, blur, gradient, and threshold passes.
package edgedetect

import (
	"github.com/stitchline/embroidery/internal/numeric"
	"github.com/stitchline/embroidery/internal/raster"
)

const downscaleMaxDim = 600

// Mode selects the adaptive-threshold regime.
type Mode int

const (
	ModePhoto Mode = iota
	ModeLogo
)

// Result bundles the three outputs this stage contributes downstream.
type Result struct {
	Edges   *raster.Raster // dashed, input resolution, for the compositor
	EdgeMap *raster.Raster // continuous (not dashed), for WarningAnalyzer
	RimBand *raster.Raster // rim ring around the alpha boundary
}

// Detect runs the full edge/rim pipeline over a quantized image.
func Detect(img *raster.Raster, threadThickness int, mode Mode) *Result {
	w, h := img.W, img.H
	if w == 0 || h == 0 {
		return &Result{
			Edges:   raster.New(w, h, 1),
			EdgeMap: raster.New(w, h, 1),
			RimBand: raster.New(w, h, 1),
		}
	}

	gray := numeric.ToGrayscale(img.Pix, img.Channels, w, h)

	dw, dh := numeric.FitInside(w, h, downscaleMaxDim, downscaleMaxDim)
	small := numeric.ResizeAreaAverage(gray, w, h, dw, dh)

	blurred := numeric.GaussianBlur3x3(small, dw, dh)
	gx, gy := numeric.Sobel(blurred, dw, dh)
	mu := numeric.MeanMagnitude(gx, gy)

	var tau float64
	if mode == ModeLogo {
		tau = max(8.0, 0.6*mu)
	} else {
		tau = max(20.0, 1.2*mu)
	}

	binarySmall := numeric.MagnitudeThreshold(gx, gy, tau)
	continuous := numeric.ResizeNearest(binarySmall, 1, dw, dh, w, h)

	dashed := dashAlongX(continuous, w, h, threadThickness)

	alpha := numeric.ExtractAlpha(img.Pix, img.Channels, w, h)
	alphaBinary := thresholdAlpha(alpha)
	rim := rimBand(alphaBinary, w, h, threadThickness)

	return &Result{
		Edges:   wrap1(dashed, w, h),
		EdgeMap: wrap1(continuous, w, h),
		RimBand: wrap1(rim, w, h),
	}
}

func wrap1(pix []byte, w, h int) *raster.Raster {
	return &raster.Raster{W: w, H: h, Channels: 1, Pix: pix}
}

// dashAlongX zeroes edge pixels in alternating T-pixel-wide x bands,
// simulating stitch segments along a contour (spec: kept iff
// floor(x/T) mod 2 == 0).
func dashAlongX(edges []byte, w, h, t int) []byte {
	if t < 1 {
		t = 1
	}
	out := make([]byte, len(edges))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if edges[i] == 0 {
				continue
			}
			if (x/t)%2 == 0 {
				out[i] = 255
			}
		}
	}
	return out
}

func thresholdAlpha(alpha []byte) []byte {
	out := make([]byte, len(alpha))
	for i, v := range alpha {
		if v != 0 {
			out[i] = 255
		}
	}
	return out
}

// rimBand implements the dilate/erode-difference convolution: a
// square kernel of side 2T+1 is convolved against the binary alpha
// mask, and a pixel is marked rim when the convolution sum falls
// strictly between 10% and 90% of the kernel's pixel count — i.e.
// neither fully inside nor fully outside the opaque region.
func rimBand(alphaBinary []byte, w, h, t int) []byte {
	side := 2*t + 1
	half := side / 2
	size2 := float64(side * side)
	lo := size2 * 0.1
	hi := size2 * 0.9

	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for ky := -half; ky <= half; ky++ {
				yy := y + ky
				if yy < 0 || yy >= h {
					continue
				}
				for kx := -half; kx <= half; kx++ {
					xx := x + kx
					if xx < 0 || xx >= w {
						continue
					}
					if alphaBinary[yy*w+xx] != 0 {
						sum++
					}
				}
			}
			v := float64(sum)
			if v > lo && v < hi {
				out[y*w+x] = 255
			}
		}
	}
	return out
}
