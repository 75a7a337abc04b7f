package embroidery

// RGBA is an 8-bit-per-channel color, used for palette entries and option
// parsing (background hex colors). Pipeline-internal pixel math works
// directly on byte planes; RGBA exists at the edges where a structured
// color value is clearer than four loose bytes.
type RGBA struct {
	R, G, B, A uint8
}

// Equal reports whether two colors have identical channel values.
func (c RGBA) Equal(o RGBA) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B && c.A == o.A
}

// defaultFabricColor is the fallback background when a requested fabric
// asset is missing (§6: AssetMissing recovers silently with this color).
var defaultFabricColor = RGBA{R: 0xE5, G: 0xE0, B: 0xD6, A: 0xFF}

// parseHex parses "#RRGGBB" (alpha forced opaque) into an RGBA. It returns
// an error for any other form since option validation needs to distinguish
// a malformed hex string from a silently-recovered missing asset.
func parseHex(hex string) (RGBA, error) {
	if len(hex) == 7 && hex[0] == '#' {
		r, rok := hexByte(hex[1:3])
		g, gok := hexByte(hex[3:5])
		b, bok := hexByte(hex[5:7])
		if rok && gok && bok {
			return RGBA{R: r, G: g, B: b, A: 0xFF}, nil
		}
	}
	return RGBA{}, &Error{Kind: UnsupportedOption, Stage: "options", Message: "background.hex must be of the form #RRGGBB, got " + hex}
}

func hexByte(s string) (uint8, bool) {
	hi, ok1 := hexNibble(s[0])
	lo, ok2 := hexNibble(s[1])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
