package embroidery

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stitchline/embroidery/internal/blend"
	"github.com/stitchline/embroidery/internal/compose"
	"github.com/stitchline/embroidery/internal/edgedetect"
	"github.com/stitchline/embroidery/internal/numeric"
	"github.com/stitchline/embroidery/internal/orientation"
	"github.com/stitchline/embroidery/internal/quantize"
	"github.com/stitchline/embroidery/internal/raster"
	"github.com/stitchline/embroidery/internal/texture"
	"github.com/stitchline/embroidery/internal/tilecache"
	"github.com/stitchline/embroidery/internal/warn"
)

const normalizeMaxDim = 2000

// Pipeline owns the process-wide caches the spec requires be an
// injected service rather than an implicit global (§9 "Global mutable
// caches"): the two TileAndMaskCache LRUs. The texture-configuration
// cache lives inside internal/texture as a package-level cache; it is
// shared by every Pipeline and is not isolated per Pipeline.
type Pipeline struct {
	cache *tilecache.Cache
}

// New constructs a Pipeline with fresh, empty tile and mask caches. Test
// harnesses should construct their own Pipeline rather than sharing the
// package default, so tile sheets and masks cached by one test never leak
// into another. Synthesized texture banks are not covered: they stay in
// the package-level texture cache across Pipelines.
func New() *Pipeline {
	return &Pipeline{cache: tilecache.New()}
}

var defaultPipeline = New()

// Process runs the stylization pipeline against the package-level
// default Pipeline. Most callers that don't need cache isolation
// should use this rather than constructing their own Pipeline.
func Process(ctx context.Context, input []byte, mime string, opts Options) (Result, error) {
	return defaultPipeline.Process(ctx, input, mime, opts)
}

// Process decodes input, applies opts, and returns a PNG-encoded,
// stylized result plus metadata. It is a pure function of its
// arguments modulo the process-wide caches, which only affect timing,
// never output bytes (§8 property 6: determinism).
func (p *Pipeline) Process(ctx context.Context, input []byte, mime string, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, &Error{Kind: InternalError, Stage: "entry", Message: err.Error()}
	}

	r, err := resolveOptions(opts)
	if err != nil {
		return Result{}, err
	}

	log := Logger()
	p.cache.SetLogger(log)
	texture.SetLogger(log)

	total := stageTimer()

	normTimer := stageTimer()
	normalized, origSize, err := decodeAndNormalize(input)
	if err != nil {
		return Result{}, err
	}
	normalizeMs := normTimer()
	log.Debug("stage complete", "stage", "normalize", "ms", normalizeMs)

	quantTimer := stageTimer()
	qres, err := quantize.Quantize(normalized, r.maxColors)
	if err != nil {
		return Result{}, &Error{Kind: InvalidInput, Stage: "quantize", Message: err.Error()}
	}
	quantizeMs := quantTimer()
	log.Debug("stage complete", "stage", "quantize", "ms", quantizeMs, "paletteSize", len(qres.Palette))

	edgeOrientTimer := stageTimer()
	edgeRes, orientRes, err := detectEdgesAndOrientation(ctx, qres.Image, r)
	if err != nil {
		return Result{}, err
	}
	edgesOrientationMs := edgeOrientTimer()
	log.Debug("stage complete", "stage", "edges+orientation", "ms", edgesOrientationMs)

	texTimer := stageTimer()
	bank, err := texture.Synthesize(r.threadThickness, toTextureHatch(r.hatch), r.density.Scale)
	if err != nil {
		return Result{}, &Error{Kind: UnsupportedOption, Stage: "texture", Message: err.Error()}
	}
	texturesMs := texTimer()
	log.Debug("stage complete", "stage", "textures", "ms", texturesMs)

	compTimer := stageTimer()
	composite := compose.Composite(compose.Input{
		Base:            qres.Image,
		Bank:            bank,
		Edges:           edgeRes.Edges,
		RimBand:         edgeRes.RimBand,
		OrientationBins: orientRes.Bins,
		ThreadThickness: r.threadThickness,
		BorderStitch:    r.border.stitch,
		BorderWidth:     r.border.width,
		Cache:           p.cache,
	})
	compositeMs := compTimer()
	log.Debug("stage complete", "stage", "composite", "ms", compositeMs)

	bgTimer := stageTimer()
	if !r.preserveTransparency {
		compositeOverBackground(composite, r.background)
	}
	backgroundMs := bgTimer()
	log.Debug("stage complete", "stage", "background", "ms", backgroundMs)

	warnings := warn.Analyze(
		composite.Plane(3).Pix,
		composite.W, composite.H,
		r.threadThickness,
		edgeRes.EdgeMap.Pix,
		r.maxColors,
		len(qres.Palette),
	)

	outBytes, err := encodePNG(composite)
	if err != nil {
		return Result{}, &Error{Kind: InternalError, Stage: "encode", Message: err.Error()}
	}

	totalMs := total()
	log.Debug("stage complete", "stage", "total", "ms", totalMs, "warnings", len(warnings))

	palette := make([]RGBA, len(qres.Palette))
	for i, c := range qres.Palette {
		palette[i] = RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
	}

	return Result{
		OutputBytes: outBytes,
		OutputMIME:  "image/png",
		Meta: Meta{
			PaletteSize:  len(qres.Palette),
			Palette:      palette,
			OriginalSize: origSize,
			FinalSize:    Size{Width: composite.W, Height: composite.H},
			Warnings:     warnings,
			Timings: Timings{
				NormalizeMs:                normalizeMs,
				QuantizeMs:                 quantizeMs,
				EdgesOrientationParallelMs: edgesOrientationMs,
				TexturesMs:                 texturesMs,
				CompositeMs:                compositeMs,
				BackgroundMs:               backgroundMs,
				TotalMs:                    totalMs,
			},
		},
	}, nil
}

func stageTimer() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}
}

func decodeAndNormalize(input []byte) (*raster.Raster, Size, error) {
	if len(input) == 0 {
		return nil, Size{}, &Error{Kind: InvalidInput, Stage: "normalize", Message: "empty input"}
	}
	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, Size{}, &Error{Kind: InvalidInput, Stage: "normalize", Message: "could not decode image: " + err.Error()}
	}

	full := raster.FromImage(img)
	if full.W == 0 || full.H == 0 {
		return nil, Size{}, &Error{Kind: InvalidInput, Stage: "normalize", Message: "empty image"}
	}

	nw, nh := numeric.FitInside(full.W, full.H, normalizeMaxDim, normalizeMaxDim)
	if nw == full.W && nh == full.H {
		return full, Size{Width: nw, Height: nh}, nil
	}
	resized := numeric.ResizeNearest(full.Pix, full.Channels, full.W, full.H, nw, nh)
	return &raster.Raster{W: nw, H: nh, Channels: full.Channels, Pix: resized}, Size{Width: nw, Height: nh}, nil
}

// detectEdgesAndOrientation runs EdgeDetector and OrientationEstimator
// concurrently: they read only the shared, immutable QuantizedImage
// and produce disjoint outputs, so there is no data race to guard
// against beyond the usual Go rule of not writing to shared memory.
func detectEdgesAndOrientation(ctx context.Context, quantized *raster.Raster, r resolved) (*edgedetect.Result, *orientation.Result, error) {
	g, _ := errgroup.WithContext(ctx)

	var edgeRes *edgedetect.Result
	var orientRes *orientation.Result

	g.Go(func() error {
		edgeRes = edgedetect.Detect(quantized, r.threadThickness, toEdgeMode(r.style.Mode))
		return nil
	})
	g.Go(func() error {
		orientRes = orientation.Estimate(quantized, toOrientationMethod(r.style.Orientation), toOrientationMode(r.style.Mode))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, &Error{Kind: InternalError, Stage: "edges/orientation", Message: err.Error()}
	}
	return edgeRes, orientRes, nil
}

func toEdgeMode(m Mode) edgedetect.Mode {
	if m == ModeLogo {
		return edgedetect.ModeLogo
	}
	return edgedetect.ModePhoto
}

func toOrientationMode(m Mode) orientation.Mode {
	if m == ModeLogo {
		return orientation.ModeLogo
	}
	return orientation.ModePhoto
}

func toOrientationMethod(m OrientationMethod) orientation.Method {
	if m == OrientationLIC {
		return orientation.MethodLIC
	}
	return orientation.MethodBinned
}

func toTextureHatch(h HatchKind) texture.Hatch {
	switch h {
	case HatchNone:
		return texture.HatchNone
	case HatchCross:
		return texture.HatchCross
	default:
		return texture.HatchDiagonal
	}
}

// compositeOverBackground flattens the composite's transparency onto
// a solid backdrop using a standard source-over blend, in place.
// Fabric backgrounds always recover to the default color here: the
// core has no filesystem access to real fabric assets (background-
// image loading from disk is explicitly an external collaborator,
// §1), so every fabric name is, from the core's point of view, a
// missing asset.
func compositeOverBackground(img *raster.Raster, bg *Background) {
	color := defaultFabricColor
	if bg != nil && bg.Type == BackgroundColor {
		if parsed, err := parseHex(bg.Hex); err == nil {
			color = parsed
		}
	} else if bg != nil && bg.Type == BackgroundFabric {
		Logger().Warn(assetMissingLogMessage, "name", bg.Name)
	}

	for i := 0; i < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if a == 255 {
			continue
		}
		img.Pix[i] = sourceOver(img.Pix[i], color.R, a)
		img.Pix[i+1] = sourceOver(img.Pix[i+1], color.G, a)
		img.Pix[i+2] = sourceOver(img.Pix[i+2], color.B, a)
		img.Pix[i+3] = 255
	}
}

func sourceOver(src, dst, alpha byte) byte {
	inv := blend.Multiply(255-alpha, dst)
	return blend.Multiply(alpha, src) + inv
}

func encodePNG(img *raster.Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToNRGBA()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
