package embroidery

// HatchKind selects the cross-hatch overlay style (§6).
type HatchKind string

const (
	HatchNone     HatchKind = "none"
	HatchDiagonal HatchKind = "diagonal"
	HatchCross    HatchKind = "cross"
)

// OrientationMethod selects how the orientation field is derived (§4.5).
// LIC is accepted but currently only changes the bin count; see DESIGN.md.
type OrientationMethod string

const (
	OrientationBinned8 OrientationMethod = "binned-8"
	OrientationLIC     OrientationMethod = "lic"
)

// EdgeStyle selects the edge-extraction algorithm name. Both values
// currently resolve to the thresholded-Sobel pipeline of §4.4; "xdog" is
// an accepted alias, not a distinct implementation.
type EdgeStyle string

const (
	EdgeCanny EdgeStyle = "canny"
	EdgeXDoG  EdgeStyle = "xdog"
)

// Mode selects the logo/photo tuning used by edge and orientation analysis.
type Mode string

const (
	ModePhoto Mode = "photo"
	ModeLogo  Mode = "logo"
)

// BackgroundKind selects how preserveTransparency=false fills the canvas.
type BackgroundKind string

const (
	BackgroundColor  BackgroundKind = "color"
	BackgroundFabric BackgroundKind = "fabric"
)

// Background describes the compositing backdrop used when
// PreserveTransparency is false.
type Background struct {
	Type BackgroundKind
	// Hex is required when Type == BackgroundColor, form "#RRGGBB".
	Hex string
	// Name is required when Type == BackgroundFabric. An unknown name
	// recovers silently to the default fabric color (§6, §7 AssetMissing).
	Name string
}

// StyleOptions groups the style.* option fields.
type StyleOptions struct {
	Orientation OrientationMethod
	Edges       EdgeStyle
	Mode        Mode
}

// BorderOptions groups the border.* option fields. Stitch is a pointer so
// the zero value can be distinguished from an explicit false; it defaults
// to true.
type BorderOptions struct {
	Stitch *bool
	// Width defaults to ThreadThickness when zero; see resolveOptions.
	Width int
}

// DensityOptions groups the density.* option fields.
type DensityOptions struct {
	Scale float64
}

// LightingOptions groups the lighting.* option fields. Sheen is accepted
// and preserved in the schema but does not affect pixel output (§6, §9).
type LightingOptions struct {
	Sheen float64
}

// GrainOptions groups the grain.* option fields. Randomness is accepted and
// preserved in the schema but does not affect pixel output (§6, §9).
type GrainOptions struct {
	Randomness float64
}

// Options is the caller-supplied, strongly-typed stylization request. All
// fields are optional; resolveOptions (called once, at the pipeline
// boundary) fills every unset field with its documented default and clamps
// any value outside its valid range. Downstream stages receive a resolved
// value and never re-validate it.
//
// PreserveTransparency and Border.Stitch default to true; both are
// pointers so the zero value of Options can be distinguished from a
// caller explicitly turning them off.
type Options struct {
	MaxColors            int
	ThreadThickness      int
	PreserveTransparency *bool
	Hatch                HatchKind
	Background           *Background
	Style                StyleOptions
	Lighting             LightingOptions
	Border               BorderOptions
	Density              DensityOptions
	Grain                GrainOptions
}

// DefaultOptions returns the zero-value request, i.e. "use every default".
func DefaultOptions() Options {
	return Options{}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resolved is the fully-defaulted, fully-clamped, pre-validated form of
// Options that every pipeline stage operates on. Keeping it as a distinct
// type (rather than mutating the caller's Options in place) makes it clear
// at a glance, in every stage signature, that validation already happened.
type resolvedBorder struct {
	stitch bool
	width  int
}

type resolved struct {
	maxColors            int
	threadThickness      int
	preserveTransparency bool
	hatch                HatchKind
	background           *Background
	style                StyleOptions
	lighting             LightingOptions
	border               resolvedBorder
	density              DensityOptions
	grain                GrainOptions
}

// boolOrDefault returns *p if set, else def. Used to resolve the tri-state
// pointer-bool option fields that default to true.
func boolOrDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// resolveOptions fills defaults, clamps ranges, and rejects unknown enum
// values. It is the only place in the pipeline that validates option
// content (§9: "downstream stages must never re-validate").
func resolveOptions(o Options) (resolved, error) {
	r := resolved{
		maxColors:            o.MaxColors,
		threadThickness:      o.ThreadThickness,
		preserveTransparency: boolOrDefault(o.PreserveTransparency, true),
		hatch:                o.Hatch,
		background:           o.Background,
		style:                o.Style,
		lighting:             o.Lighting,
		density:              o.Density,
		grain:                o.Grain,
		border: resolvedBorder{
			stitch: boolOrDefault(o.Border.Stitch, true),
			width:  o.Border.Width,
		},
	}

	if r.maxColors == 0 {
		r.maxColors = 8
	}
	r.maxColors = clampInt(r.maxColors, 2, 12)

	if r.threadThickness == 0 {
		r.threadThickness = 3
	}
	r.threadThickness = clampInt(r.threadThickness, 1, 10)

	switch r.hatch {
	case "":
		r.hatch = HatchDiagonal
	case HatchNone, HatchDiagonal, HatchCross:
	default:
		return resolved{}, &Error{Kind: UnsupportedOption, Stage: "options", Message: "unknown hatch: " + string(r.hatch)}
	}

	if r.background != nil {
		switch r.background.Type {
		case BackgroundColor:
			if _, err := parseHex(r.background.Hex); err != nil {
				return resolved{}, err
			}
		case BackgroundFabric:
			// Missing asset resolution happens at compositing time
			// (AssetMissing recovers silently, §7); any non-empty name is
			// accepted here.
		default:
			return resolved{}, &Error{Kind: UnsupportedOption, Stage: "options", Message: "unknown background.type: " + string(r.background.Type)}
		}
	}

	switch r.style.Orientation {
	case "":
		r.style.Orientation = OrientationBinned8
	case OrientationBinned8, OrientationLIC:
	default:
		return resolved{}, &Error{Kind: UnsupportedOption, Stage: "options", Message: "unknown style.orientation: " + string(r.style.Orientation)}
	}

	switch r.style.Edges {
	case "":
		r.style.Edges = EdgeCanny
	case EdgeCanny, EdgeXDoG:
	default:
		return resolved{}, &Error{Kind: UnsupportedOption, Stage: "options", Message: "unknown style.edges: " + string(r.style.Edges)}
	}

	switch r.style.Mode {
	case "":
		r.style.Mode = ModePhoto
	case ModePhoto, ModeLogo:
	default:
		return resolved{}, &Error{Kind: UnsupportedOption, Stage: "options", Message: "unknown style.mode: " + string(r.style.Mode)}
	}

	if r.lighting.Sheen == 0 {
		r.lighting.Sheen = 0.25
	}
	r.lighting.Sheen = clampFloat(r.lighting.Sheen, 0, 1)

	if r.density.Scale == 0 {
		r.density.Scale = 1.0
	}
	r.density.Scale = clampFloat(r.density.Scale, 0.5, 2)

	if r.grain.Randomness == 0 {
		r.grain.Randomness = 0.15
	}
	r.grain.Randomness = clampFloat(r.grain.Randomness, 0, 1)

	if r.border.width == 0 {
		r.border.width = r.threadThickness
	}
	r.border.width = clampInt(r.border.width, 1, 10)

	return r, nil
}
