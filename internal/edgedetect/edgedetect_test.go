package edgedetect

import (
	"testing"

	"github.com/stitchline/embroidery/internal/raster"
)

func TestDetectZeroImageYieldsAllZeroOutputs(t *testing.T) {
	img := raster.New(0, 0, 4)
	res := Detect(img, 3, ModePhoto)
	if len(res.Edges.Pix) != 0 || len(res.RimBand.Pix) != 0 {
		t.Error("zero-size image should produce zero-size outputs, not an error")
	}
}

func TestDetectUniformImageHasNoEdges(t *testing.T) {
	img := raster.New(20, 20, 4)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 100, 100, 100, 255
	}
	res := Detect(img, 3, ModePhoto)
	for _, v := range res.EdgeMap.Pix {
		if v != 0 {
			t.Fatal("uniform image should have no edges")
		}
	}
}

func TestDetectOutputsAreBinary(t *testing.T) {
	img := raster.New(30, 30, 4)
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			off := (y*30 + x) * 4
			if x < 15 {
				img.Pix[off], img.Pix[off+1], img.Pix[off+2] = 0, 0, 0
			} else {
				img.Pix[off], img.Pix[off+1], img.Pix[off+2] = 255, 255, 255
			}
			img.Pix[off+3] = 255
		}
	}
	res := Detect(img, 3, ModePhoto)
	for _, v := range res.Edges.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("edge map must be binary, got %d", v)
		}
	}
	for _, v := range res.RimBand.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("rim band must be binary, got %d", v)
		}
	}
}

func TestDetectEdgesRespectDashPeriod(t *testing.T) {
	// Construct a continuous edge map manually via dashAlongX to check
	// the dashing rule in isolation from gradient detection.
	w, h, tT := 20, 1, 4
	edges := make([]byte, w*h)
	for i := range edges {
		edges[i] = 255
	}
	out := dashAlongX(edges, w, h, tT)
	for x := 0; x < w; x++ {
		want := byte(0)
		if (x/tT)%2 == 0 {
			want = 255
		}
		if out[x] != want {
			t.Errorf("x=%d: dashed = %d, want %d", x, out[x], want)
		}
	}
}

func TestRimBandOnlyAtCanvasEdgeForFullyOpaqueImage(t *testing.T) {
	// Off-canvas pixels count as transparent, so a fully opaque image has
	// its only alpha transition at the canvas edge: the rim covers the
	// outer T pixels and nothing further in.
	w, h, tT := 20, 20, 3
	alpha := make([]byte, w*h)
	for i := range alpha {
		alpha[i] = 255
	}
	rim := rimBand(alpha, w, h, tT)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nearEdge := x < tT || y < tT || x >= w-tT || y >= h-tT
			want := byte(0)
			if nearEdge {
				want = 255
			}
			if rim[y*w+x] != want {
				t.Fatalf("(%d,%d): rim = %d, want %d", x, y, rim[y*w+x], want)
			}
		}
	}
}

func TestRimBandNonEmptyAtAlphaBoundary(t *testing.T) {
	w, h := 30, 30
	alpha := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= 10 && x < 20 && y >= 10 && y < 20 {
				alpha[y*w+x] = 255
			}
		}
	}
	rim := rimBand(alpha, w, h, 2)
	found := false
	for _, v := range rim {
		if v != 0 {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected nonzero rim band around the opaque square's boundary")
	}
}
