package numeric

import "math"

// BinsFromGradients maps per-pixel gradients to an orientation bin over the
// half-circle [0, π): a = atan2(gy, gx); negative angles are folded into
// [0, π) by adding π; the bin index is floor(a·N/π), clamped to [0, N-1]
// so floating-point error at a == π never produces bin N.
func BinsFromGradients(gx, gy []int, n int) []byte {
	out := make([]byte, len(gx))
	for i := range gx {
		a := math.Atan2(float64(gy[i]), float64(gx[i]))
		if a < 0 {
			a += math.Pi
		}
		bin := int(math.Floor(a * float64(n) / math.Pi))
		if bin < 0 {
			bin = 0
		}
		if bin > n-1 {
			bin = n - 1
		}
		out[i] = byte(bin)
	}
	return out
}

// OrientationField computes the continuous per-pixel orientation
// atan2(gy,gx), folded into [0, π).
func OrientationField(gx, gy []int) []float64 {
	out := make([]float64, len(gx))
	for i := range gx {
		a := math.Atan2(float64(gy[i]), float64(gx[i]))
		if a < 0 {
			a += math.Pi
		}
		out[i] = a
	}
	return out
}
