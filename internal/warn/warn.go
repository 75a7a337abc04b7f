// Package warn inspects the alpha distance transform, edge density,
// and palette reduction to produce human-readable quality warnings.
// It never fails a request; it only appends strings.
package warn

import (
	"fmt"

	"github.com/stitchline/embroidery/internal/numeric"
)

const edgeDensityThreshold = 0.12

// Analyze emits the subset of warnings whose condition holds for this
// request. alphaMask is a 1-byte-per-pixel opacity plane (0 or 255);
// edges is the continuous (non-dashed) edge map; threadThickness is T;
// maxColors and paletteSize are the requested cap and the palette
// actually produced.
func Analyze(alphaMask []byte, w, h int, threadThickness int, edges []byte, maxColors, paletteSize int) []string {
	var warnings []string

	if w > 0 && h > 0 {
		if msg, ok := thinStrokesWarning(alphaMask, w, h, threadThickness); ok {
			warnings = append(warnings, msg)
		}
		if msg, ok := denseDetailWarning(edges, w, h); ok {
			warnings = append(warnings, msg)
		}
	}

	if paletteSize > maxColors {
		warnings = append(warnings, fmt.Sprintf("Reduced colors to %d", maxColors))
	}

	return warnings
}

// thinStrokesWarning measures, for every opaque pixel, its distance to
// the nearest transparent pixel — the interior distance transform.
// DistanceTransform itself gives distance-to-nearest-set-pixel, so the
// mask is inverted first: background becomes the "set" source and
// opaque pixels receive their distance to it.
func thinStrokesWarning(alphaMask []byte, w, h, t int) (string, bool) {
	inverted := make([]byte, len(alphaMask))
	for i, a := range alphaMask {
		if a == 0 {
			inverted[i] = 255
		}
	}
	dist := numeric.DistanceTransform(inverted, w, h)

	minStroke := -1.0
	for i, a := range alphaMask {
		if a == 0 {
			continue
		}
		stroke := 2 * dist[i]
		if minStroke < 0 || stroke < minStroke {
			minStroke = stroke
		}
	}

	if minStroke >= 0 && minStroke < float64(t) {
		return "Thin strokes may not embroider cleanly", true
	}
	return "", false
}

func denseDetailWarning(edges []byte, w, h int) (string, bool) {
	set := 0
	for _, v := range edges {
		if v != 0 {
			set++
		}
	}
	density := float64(set) / float64(w*h)
	if density > edgeDensityThreshold {
		return "Dense detail may fill in on fabric", true
	}
	return "", false
}
