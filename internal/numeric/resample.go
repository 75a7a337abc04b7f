package numeric

// ResizeNearest resamples a multi-channel byte plane to (dstW, dstH) using
// nearest-neighbor selection. Normalization, the quantizer and orientation
// downscales, and every upscale of a bin/edge map back to input resolution
// use it, because they want exact source values reproduced rather than
// interpolated — interpolating a quantized color index or a bin index
// would invent colors/bins that never existed in the source. The edge
// detector's pre-Sobel downscale uses ResizeAreaAverage instead.
func ResizeNearest(src []byte, channels, srcW, srcH, dstW, dstH int) []byte {
	if dstW == srcW && dstH == srcH {
		out := make([]byte, len(src))
		copy(out, src)
		return out
	}

	out := make([]byte, dstW*dstH*channels)
	for y := 0; y < dstH; y++ {
		sy := y * srcH / dstH
		if sy >= srcH {
			sy = srcH - 1
		}
		for x := 0; x < dstW; x++ {
			sx := x * srcW / dstW
			if sx >= srcW {
				sx = srcW - 1
			}
			srcOff := (sy*srcW + sx) * channels
			dstOff := (y*dstW + x) * channels
			copy(out[dstOff:dstOff+channels], src[srcOff:srcOff+channels])
		}
	}
	return out
}

// ResizeAreaAverage downscales a single-channel byte plane to (dstW,
// dstH) by averaging each destination pixel's source footprint, the
// box-filter equivalent of the teacher's SampleBilinear 2x2 averaging
// generalized to an NxM footprint. Unlike ResizeNearest, every source
// sample contributes to its destination pixel, so high-frequency
// content too fine for the destination resolution is averaged away
// instead of aliased — the smoothing this pipeline's pre-Sobel
// downscale needs, ahead of (and distinct from) the Gaussian blur
// applied afterward. Only meaningful for downscaling; dstW/dstH must
// not exceed srcW/srcH.
func ResizeAreaAverage(src []byte, srcW, srcH, dstW, dstH int) []byte {
	if dstW == srcW && dstH == srcH {
		out := make([]byte, len(src))
		copy(out, src)
		return out
	}

	out := make([]byte, dstW*dstH)
	for y := 0; y < dstH; y++ {
		sy0 := y * srcH / dstH
		sy1 := (y + 1) * srcH / dstH
		if sy1 <= sy0 {
			sy1 = sy0 + 1
		}
		if sy1 > srcH {
			sy1 = srcH
		}
		for x := 0; x < dstW; x++ {
			sx0 := x * srcW / dstW
			sx1 := (x + 1) * srcW / dstW
			if sx1 <= sx0 {
				sx1 = sx0 + 1
			}
			if sx1 > srcW {
				sx1 = srcW
			}

			var sum, n int
			for sy := sy0; sy < sy1; sy++ {
				row := sy * srcW
				for sx := sx0; sx < sx1; sx++ {
					sum += int(src[row+sx])
					n++
				}
			}
			out[y*dstW+x] = byte(sum / n)
		}
	}
	return out
}

// FitInside computes dimensions that fit within (maxW, maxH) while
// preserving aspect ratio, never enlarging the source. Used by
// normalization (§3 NormalizedImage: "fit-inside, no enlargement").
func FitInside(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if hs := float64(maxH) / float64(h); hs < scale {
		scale = hs
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
