package embroidery

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNGImage(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test fixture: %v", err)
	}
	return buf.Bytes()
}

func solidSquarePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return encodePNGImage(t, img)
}

// logoCirclePNG draws a solid black circle on a white opaque square.
func logoCirclePNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cx, cy := float64(size)/2, float64(size)/2
	radius := float64(size) / 3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return encodePNGImage(t, img)
}

// thinLinePNG draws a single-pixel-wide diagonal line on an otherwise
// fully transparent canvas.
func thinLinePNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < size; i++ {
		img.SetNRGBA(i, i, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	}
	return encodePNGImage(t, img)
}

// transparentDiamondPNG draws an opaque diamond centered in an
// otherwise transparent canvas, used to exercise preserveTransparency
// and the rim band around an alpha boundary.
func transparentDiamondPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cx, cy := size/2, size/2
	radius := size / 3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if abs(x-cx)+abs(y-cy) <= radius {
				img.SetNRGBA(x, y, color.NRGBA{R: 20, G: 200, B: 20, A: 255})
			}
		}
	}
	return encodePNGImage(t, img)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func decodePNGBytes(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decoding output PNG: %v", err)
	}
	return img
}

func TestProcessSolidRedSquare(t *testing.T) {
	input := solidSquarePNG(t, 100, 100, color.NRGBA{R: 255, A: 255})
	res, err := Process(context.Background(), input, "image/png", Options{
		MaxColors:       4,
		ThreadThickness: 2,
		Hatch:           HatchDiagonal,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Meta.PaletteSize != 1 {
		t.Errorf("paletteSize = %d, want 1 for a solid color image", res.Meta.PaletteSize)
	}
	if res.Meta.FinalSize.Width != 100 || res.Meta.FinalSize.Height != 100 {
		t.Errorf("finalSize = %+v, want 100x100", res.Meta.FinalSize)
	}
	for _, w := range res.Meta.Warnings {
		if w == "Thin strokes may not embroider cleanly" {
			t.Error("a fully opaque square should not trigger a thin-strokes warning")
		}
	}
	if res.OutputMIME != "image/png" {
		t.Errorf("outputMIME = %q, want image/png", res.OutputMIME)
	}
}

func TestProcessLogoTwoColorPalette(t *testing.T) {
	input := logoCirclePNG(t, 200)
	res, err := Process(context.Background(), input, "image/png", Options{
		Style:           StyleOptions{Mode: ModeLogo},
		MaxColors:       2,
		ThreadThickness: 3,
		Hatch:           HatchNone,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Meta.PaletteSize != 2 {
		t.Errorf("paletteSize = %d, want 2 for a black circle on white", res.Meta.PaletteSize)
	}
}

func TestProcessPreservesTransparencyOutsideShape(t *testing.T) {
	input := transparentDiamondPNG(t, 120)
	res, err := Process(context.Background(), input, "image/png", Options{
		Hatch:           HatchCross,
		ThreadThickness: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := decodePNGBytes(t, res.OutputBytes)
	b := out.Bounds()
	_, _, _, a := out.At(b.Min.X, b.Min.Y).RGBA()
	if a != 0 {
		t.Error("a corner far outside the diamond should remain fully transparent")
	}
}

func TestProcessThinStrokeWarning(t *testing.T) {
	input := thinLinePNG(t, 200)
	res, err := Process(context.Background(), input, "image/png", Options{
		ThreadThickness: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range res.Meta.Warnings {
		if w == "Thin strokes may not embroider cleanly" {
			found = true
		}
	}
	if !found {
		t.Error("a 1px-wide diagonal stroke with T=4 should trigger the thin-strokes warning")
	}
}

func TestProcessEmptyInputIsInvalidInput(t *testing.T) {
	_, err := Process(context.Background(), nil, "image/png", Options{})
	var e *Error
	if !asError(err, &e) || e.Kind != InvalidInput {
		t.Fatalf("err = %v, want *Error{Kind: InvalidInput}", err)
	}
}

func TestProcessUnknownHatchIsUnsupportedOption(t *testing.T) {
	input := solidSquarePNG(t, 10, 10, color.NRGBA{R: 1, A: 255})
	_, err := Process(context.Background(), input, "image/png", Options{Hatch: "plaid"})
	var e *Error
	if !asError(err, &e) || e.Kind != UnsupportedOption {
		t.Fatalf("err = %v, want *Error{Kind: UnsupportedOption}", err)
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	input := logoCirclePNG(t, 80)
	opts := Options{Style: StyleOptions{Mode: ModeLogo}, MaxColors: 3}

	a, err := Process(context.Background(), input, "image/png", opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Process(context.Background(), input, "image/png", opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.OutputBytes, b.OutputBytes) {
		t.Error("two invocations with identical input and options should produce byte-identical output")
	}
}

func TestProcessPaletteClamp(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: byte((x * 11) % 256),
				G: byte((y * 17) % 256),
				B: byte((x + y) % 256),
				A: 255,
			})
		}
	}
	input := encodePNGImage(t, img)

	res, err := Process(context.Background(), input, "image/png", Options{MaxColors: 6})
	if err != nil {
		t.Fatal(err)
	}
	if res.Meta.PaletteSize > 6 {
		t.Errorf("paletteSize = %d, want <= 6", res.Meta.PaletteSize)
	}
}

func TestPipelineConstructorsHaveIsolatedCaches(t *testing.T) {
	p1 := New()
	p2 := New()
	input := solidSquarePNG(t, 20, 20, color.NRGBA{G: 200, A: 255})
	if _, err := p1.Process(context.Background(), input, "image/png", Options{}); err != nil {
		t.Fatal(err)
	}
	if p1.cache.TileLen() == 0 {
		t.Error("p1 should have cached tile sheets after Process")
	}
	if p2.cache.TileLen() != 0 || p2.cache.MaskLen() != 0 {
		t.Errorf("p2 cache should be untouched by p1: tiles=%d masks=%d", p2.cache.TileLen(), p2.cache.MaskLen())
	}
	if _, err := p2.Process(context.Background(), input, "image/png", Options{}); err != nil {
		t.Fatal(err)
	}
}
