// Package blend implements the per-channel compositing functions used
// to layer thread, hatch, and rim-stitch textures over the quantized
// base image. Both functions operate on unmultiplied 8-bit channel
// values and mirror the conventional Porter-Duff-plus-blend formulas
// used by compositing libraries, restricted to the two modes this
// pipeline's layer stack actually uses.
package blend

// Multiply blends source b over backdrop a: a*b/255 per channel.
// Darkens; used for the hatch layer so weave lines read as shadow
// rather than paint.
func Multiply(a, b uint8) uint8 {
	return uint8(uint16(a) * uint16(b) / 255)
}

// Overlay blends source b over backdrop a using the standard overlay
// formula: a<128 takes the multiply branch, otherwise the screen
// branch. Used for thread, edge, and rim-stitch layers, all of which
// need to darken shadowed backdrop and lighten bright backdrop rather
// than flatly replace it.
func Overlay(a, b uint8) uint8 {
	af, bf := uint16(a), uint16(b)
	if af < 128 {
		return uint8(2 * af * bf / 255)
	}
	return uint8(255 - 2*(255-af)*(255-bf)/255)
}

// MultiplyRGB applies Multiply to each of the R, G, B channels,
// leaving alpha untouched (composited separately via a mask).
func MultiplyRGB(base [3]uint8, src [3]uint8) [3]uint8 {
	return [3]uint8{
		Multiply(base[0], src[0]),
		Multiply(base[1], src[1]),
		Multiply(base[2], src[2]),
	}
}

// OverlayRGB applies Overlay to each of the R, G, B channels.
func OverlayRGB(base [3]uint8, src [3]uint8) [3]uint8 {
	return [3]uint8{
		Overlay(base[0], src[0]),
		Overlay(base[1], src[1]),
		Overlay(base[2], src[2]),
	}
}

// Mix linearly interpolates from base to blended using mask/255 as
// the weight, the standard way a masked blend layer is restricted to
// the region where a mask is set without branching per pixel.
func Mix(base, blended, mask uint8) uint8 {
	m := uint16(mask)
	return uint8((uint16(base)*(255-m) + uint16(blended)*m) / 255)
}
