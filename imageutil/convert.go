package imageutil

// Luminance returns the BT.601 luma of c: Y = 0.299*R + 0.587*G + 0.114*B,
// rounded, matching OpenCV's COLOR_BGR2GRAY.
func Luminance(c RGB) uint8 {
	// Integer math, scaled by 1000
	lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
	if lum > 255 {
		lum = 255
	}
	return uint8(lum)
}
