package warn

import "testing"

func uniformAlpha(w, h int, v byte) []byte {
	m := make([]byte, w*h)
	for i := range m {
		m[i] = v
	}
	return m
}

func TestThinStrokesNotEmittedForUniformOpaque(t *testing.T) {
	alpha := uniformAlpha(50, 50, 255)
	edges := make([]byte, 50*50)
	warnings := Analyze(alpha, 50, 50, 3, edges, 8, 1)
	for _, w := range warnings {
		if w == "Thin strokes may not embroider cleanly" {
			t.Fatal("uniform opaque image should not trigger thin-strokes warning")
		}
	}
}

func TestThinStrokesEmittedForOnePixelLine(t *testing.T) {
	w, h := 200, 200
	alpha := make([]byte, w*h)
	for x := 0; x < w; x++ {
		y := x // a 1px-wide diagonal line
		if y < h {
			alpha[y*w+x] = 255
		}
	}
	edges := make([]byte, w*h)
	warnings := Analyze(alpha, w, h, 3, edges, 8, 1)
	found := false
	for _, msg := range warnings {
		if msg == "Thin strokes may not embroider cleanly" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected thin-strokes warning for a 1px-wide diagonal line with T=3")
	}
}

func TestDenseDetailEmittedAboveThreshold(t *testing.T) {
	w, h := 20, 20
	edges := make([]byte, w*h)
	for i := range edges {
		if i%2 == 0 {
			edges[i] = 255
		}
	}
	alpha := uniformAlpha(w, h, 255)
	warnings := Analyze(alpha, w, h, 3, edges, 8, 1)
	found := false
	for _, msg := range warnings {
		if msg == "Dense detail may fill in on fabric" {
			found = true
		}
	}
	if !found {
		t.Fatal("50% edge density should exceed the 0.12 threshold")
	}
}

func TestDenseDetailNotEmittedBelowThreshold(t *testing.T) {
	w, h := 20, 20
	edges := make([]byte, w*h) // no edges set
	alpha := uniformAlpha(w, h, 255)
	warnings := Analyze(alpha, w, h, 3, edges, 8, 1)
	for _, msg := range warnings {
		if msg == "Dense detail may fill in on fabric" {
			t.Fatal("zero edge density should not trigger dense-detail warning")
		}
	}
}

func TestReducedColorsWarningOnClamp(t *testing.T) {
	alpha := uniformAlpha(10, 10, 255)
	edges := make([]byte, 100)
	warnings := Analyze(alpha, 10, 10, 3, edges, 6, 12)
	found := false
	for _, msg := range warnings {
		if msg == "Reduced colors to 6" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected 'Reduced colors to 6' warning when paletteSize > maxColors")
	}
}

func TestNoReducedColorsWarningWhenPaletteFits(t *testing.T) {
	alpha := uniformAlpha(10, 10, 255)
	edges := make([]byte, 100)
	warnings := Analyze(alpha, 10, 10, 3, edges, 8, 3)
	for _, msg := range warnings {
		if msg == "Reduced colors to 8" {
			t.Fatal("should not warn when palette fits within maxColors")
		}
	}
}
