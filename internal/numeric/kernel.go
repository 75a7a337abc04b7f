package numeric

import "math"

// GaussianBlur3x3 convolves a grayscale plane with the fixed 3x3 kernel
// {1,2,1;2,4,2;1,2,1}/16, using replicate-edge boundary handling. The
// kernel is small and fixed rather than generated from a radius (compare
// a general-purpose blur filter that derives kernel size from sigma):
// both analysis stages, edge detection and orientation estimation, run
// this same sigma≈1 pass ahead of Sobel; there is no separate, narrower
// blur for orientation.
func GaussianBlur3x3(gray []byte, w, h int) []byte {
	out := make([]byte, w*h)
	weights := [3][3]int{{1, 2, 1}, {2, 4, 2}, {1, 2, 1}}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sx := replicate(x+kx, w)
					sy := replicate(y+ky, h)
					sum += int(gray[sy*w+sx]) * weights[ky+1][kx+1]
				}
			}
			out[y*w+x] = clampByte(float64(sum) / 16)
		}
	}
	return out
}

// replicate clamps an index into [0, n) by repeating the edge pixel,
// implementing "replicate-edge boundary" for convolution windows that
// overhang the image.
func replicate(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Sobel computes the horizontal and vertical gradient planes of a
// grayscale image using the standard 3x3 Sobel operator with
// replicate-edge boundary handling. Output values are signed.
func Sobel(gray []byte, w, h int) (gx, gy []int) {
	gx = make([]int, w*h)
	gy = make([]int, w*h)

	// Gx highlights vertical edges, Gy highlights horizontal edges.
	kx := [3][3]int{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	ky := [3][3]int{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sx, sy int
			for j := -1; j <= 1; j++ {
				for i := -1; i <= 1; i++ {
					v := int(gray[replicate(y+j, h)*w+replicate(x+i, w)])
					sx += v * kx[j+1][i+1]
					sy += v * ky[j+1][i+1]
				}
			}
			gx[y*w+x] = sx
			gy[y*w+x] = sy
		}
	}
	return gx, gy
}

// MagnitudeThreshold yields a binary plane (0 or 255) marking pixels whose
// gradient magnitude hypot(gx,gy) is at least tau.
func MagnitudeThreshold(gx, gy []int, tau float64) []byte {
	out := make([]byte, len(gx))
	for i := range gx {
		if math.Hypot(float64(gx[i]), float64(gy[i])) >= tau {
			out[i] = 255
		}
	}
	return out
}

// MeanMagnitude returns the mean gradient magnitude over the plane, used
// to derive adaptive edge thresholds (§4.4 step 4).
func MeanMagnitude(gx, gy []int) float64 {
	if len(gx) == 0 {
		return 0
	}
	sum := 0.0
	for i := range gx {
		sum += math.Hypot(float64(gx[i]), float64(gy[i]))
	}
	return sum / float64(len(gx))
}
