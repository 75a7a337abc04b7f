// Package texture synthesizes the small tileable thread and hatch
// textures the compositor lays over the quantized base. Both texture
// families are generated on a transparent canvas and cached
// process-wide by their (thickness, hatch, density) configuration, so
// repeated requests with the same style never re-synthesize pixels.
package texture

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/stitchline/embroidery/internal/cache"
	"github.com/stitchline/embroidery/internal/raster"
)

const (
	threadBins = 6  // M: fixed synthesis bin count, independent of OrientationBins' N.
	tileSize   = 64 // S
	hatchSize  = 32
	configCacheCapacity = 32
)

// Hatch selects the hatch overlay style.
type Hatch int

const (
	HatchNone Hatch = iota
	HatchDiagonal
	HatchCross
)

// ErrUnknownHatch is returned for a Hatch value outside the three
// defined constants.
var ErrUnknownHatch = fmt.Errorf("unknown hatch")

// Bank bundles the generated thread TileBank and HatchTexture for one
// configuration.
type Bank struct {
	Tiles []*raster.Raster // threadBins entries, each tileSize x tileSize, 4-channel
	Hatch *raster.Raster   // hatchSize x hatchSize, 4-channel
}

type configKey struct {
	Thickness int
	Hatch     Hatch
	Density   float64
}

var configCache = cache.New[configKey, *Bank](configCacheCapacity)

// loggerPtr holds the logger used to report configCache hit/miss
// decisions at [slog.LevelDebug]. A nil value (the default) disables
// reporting; SetLogger attaches the pipeline's current logger for the
// duration of a request.
var loggerPtr atomic.Pointer[slog.Logger]

// SetLogger attaches l as the logger for subsequent Synthesize calls.
// Pass nil to disable reporting.
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}

// Synthesize returns the thread TileBank and HatchTexture for
// (threadThickness, hatch, densityScale), reusing a cached result for
// an identical configuration.
func Synthesize(threadThickness int, hatch Hatch, densityScale float64) (*Bank, error) {
	if hatch != HatchNone && hatch != HatchDiagonal && hatch != HatchCross {
		return nil, ErrUnknownHatch
	}
	key := configKey{Thickness: threadThickness, Hatch: hatch, Density: densityScale}

	if l := loggerPtr.Load(); l != nil {
		_, hit := configCache.Get(key)
		l.Debug("texture config cache lookup", "thickness", threadThickness, "hatch", hatch, "hit", hit)
	}

	return configCache.GetOrCreate(key, func() *Bank {
		return &Bank{
			Tiles: buildTileBank(threadThickness, densityScale),
			Hatch: buildHatch(hatch, densityScale),
		}
	}), nil
}

func buildTileBank(t int, d float64) []*raster.Raster {
	tiles := make([]*raster.Raster, threadBins)
	for i := 0; i < threadBins; i++ {
		theta := float64(i) * (math.Pi / float64(threadBins)) // i * 180deg/M, in radians
		tiles[i] = buildThreadTile(t, d, theta)
	}
	return tiles
}

func buildThreadTile(t int, d float64, theta float64) *raster.Raster {
	out := raster.New(tileSize, tileSize, 4)
	spacing := maxInt(2, roundInt(float64(t)*1.2/d))
	cx, cy := float64(tileSize)/2, float64(tileSize)/2
	cosT, sinT := math.Cos(theta), math.Sin(theta)

	for y := 0; y < tileSize; y++ {
		for x := 0; x < tileSize; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			// Inverse-rotate the destination pixel back into the
			// unrotated stripe space; only the x coordinate matters
			// since stripes are infinite along y before rotation.
			xu := dx*cosT + dy*sinT + cx

			stripePos := math.Mod(xu, float64(spacing))
			if stripePos < 0 {
				stripePos += float64(spacing)
			}
			if stripePos >= float64(t) {
				continue // between stripes: leave transparent
			}

			shade := threadShade(stripePos, float64(t))
			off := out.Offset(x, y)
			out.Pix[off] = shade
			out.Pix[off+1] = shade
			out.Pix[off+2] = shade
			out.Pix[off+3] = 255
		}
	}
	return out
}

// threadShade computes the horizontal gradient within a stripe of
// width t: dark (#333=51) at p=0, light (#888=136) at p=t/2, dark
// again at p=t, approximating thread shading perpendicular to the
// stripe.
func threadShade(p, t float64) byte {
	const dark, light = 51.0, 136.0
	half := t / 2
	if half <= 0 {
		return byte(dark)
	}
	var v float64
	if p <= half {
		v = dark + (light-dark)*(p/half)
	} else {
		v = light - (light-dark)*((p-half)/half)
	}
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}

func buildHatch(h Hatch, d float64) *raster.Raster {
	out := raster.New(hatchSize, hatchSize, 4)
	if h == HatchNone {
		return out
	}

	spacing := maxInt(3, roundInt(4/d))
	var alpha byte
	if h == HatchCross {
		alpha = byte(math.Round(0.3 * 255))
	} else {
		alpha = byte(0.4 * 255)
	}

	for y := 0; y < hatchSize; y++ {
		for x := 0; x < hatchSize; x++ {
			onDiag := mod(x+y, spacing) == 0
			onAntiDiag := h == HatchCross && mod(x-y, spacing) == 0
			if !onDiag && !onAntiDiag {
				continue
			}
			off := out.Offset(x, y)
			out.Pix[off], out.Pix[off+1], out.Pix[off+2] = 0, 0, 0
			out.Pix[off+3] = alpha
		}
	}
	return out
}

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
