package orientation

import (
	"testing"

	"github.com/stitchline/embroidery/internal/raster"
)

func TestBinCounts(t *testing.T) {
	cases := []struct {
		method Method
		mode   Mode
		want   int
	}{
		{MethodBinned, ModeLogo, 4},
		{MethodBinned, ModePhoto, 6},
		{MethodLIC, ModeLogo, 8},
		{MethodLIC, ModePhoto, 12},
	}
	for _, c := range cases {
		if got := binCount(c.method, c.mode); got != c.want {
			t.Errorf("binCount(%v,%v) = %d, want %d", c.method, c.mode, got, c.want)
		}
	}
}

func TestEstimateZeroImage(t *testing.T) {
	res := Estimate(raster.New(0, 0, 4), MethodBinned, ModePhoto)
	if len(res.Bins.Pix) != 0 {
		t.Error("zero image should yield zero-size bins")
	}
}

func TestEstimateBinsInRange(t *testing.T) {
	img := raster.New(40, 40, 4)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			off := (y*40 + x) * 4
			v := byte((x * 7) % 256)
			img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = v, v, v, 255
		}
	}
	res := Estimate(img, MethodBinned, ModePhoto)
	for _, b := range res.Bins.Pix {
		if int(b) >= res.N {
			t.Fatalf("bin %d out of range [0,%d)", b, res.N)
		}
	}
}

func TestEstimateBinsUpscaledToInputResolution(t *testing.T) {
	img := raster.New(50, 37, 4)
	res := Estimate(img, MethodBinned, ModePhoto)
	if res.Bins.W != 50 || res.Bins.H != 37 {
		t.Errorf("bins size = %dx%d, want 50x37", res.Bins.W, res.Bins.H)
	}
}
