package dotcraft

import (
	"cmp"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wbrown/dotcraft/imageutil"
)

func toColorful(c imageutil.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// relativeLuminance is the Rec. 709 luminance of c in linear RGB.
func relativeLuminance(c imageutil.RGB) float64 {
	r, g, b := toColorful(c).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortByBrightness orders colors from darkest to brightest in place.
// Equal luminances keep their relative order.
func SortByBrightness(colors []imageutil.RGB) {
	slices.SortStableFunc(colors, func(a, b imageutil.RGB) int {
		return cmp.Compare(relativeLuminance(a), relativeLuminance(b))
	})
}

// HexPalette formats colors as #rrggbb strings.
func HexPalette(colors []imageutil.RGB) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = toColorful(c).Hex()
	}
	return out
}
