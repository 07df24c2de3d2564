package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

// CreateGradientImage creates a horizontal gray gradient test image.
func CreateGradientImage(width, height int) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / max(1, width-1))
			img.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
			}
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// ColorBars are the eight colors used by CreateColorBarsImage, in order.
var ColorBars = []RGB{
	{255, 255, 255}, // White
	{255, 255, 0},   // Yellow
	{0, 255, 255},   // Cyan
	{0, 255, 0},     // Green
	{255, 0, 255},   // Magenta
	{255, 0, 0},     // Red
	{0, 0, 255},     // Blue
	{0, 0, 0},       // Black
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	barWidth := max(1, width/len(ColorBars))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := x / barWidth
			if colorIdx >= len(ColorBars) {
				colorIdx = len(ColorBars) - 1
			}
			img.SetRGB(x, y, ColorBars[colorIdx])
		}
	}
	return img
}

// CreateNoiseImage fills an image with a deterministic pseudo-random
// pattern (xorshift), useful when a test needs many distinct colors.
func CreateNoiseImage(width, height int, seed uint32) *PixelBuffer {
	img := NewPixelBuffer(width, height)
	state := seed | 1
	for i := range img.Pix {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		img.Pix[i] = uint8(state >> 24)
	}
	return img
}

// EncodePNG encodes img as PNG in memory. It panics on failure, which
// cannot happen for in-memory writes of valid images.
func EncodePNG(img image.Image) []byte {
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		panic(err)
	}
	return b.Bytes()
}

// CalculateMSE calculates the Mean Squared Error between two buffers.
// Buffers of different sizes yield +Inf.
func CalculateMSE(img1, img2 *PixelBuffer) float64 {
	if img1.Width != img2.Width || img1.Height != img2.Height {
		return math.Inf(1)
	}
	if len(img1.Pix) == 0 {
		return 0
	}
	var sumSq float64
	for i := range img1.Pix {
		d := float64(img1.Pix[i]) - float64(img2.Pix[i])
		sumSq += d * d
	}
	return sumSq / float64(len(img1.Pix))
}

// CalculateMaxDiff calculates the maximum channel difference between two
// buffers. Buffers of different sizes yield 256.
func CalculateMaxDiff(img1, img2 *PixelBuffer) int {
	if img1.Width != img2.Width || img1.Height != img2.Height {
		return 256
	}
	maxDiff := 0
	for i := range img1.Pix {
		d := abs(int(img1.Pix[i]) - int(img2.Pix[i]))
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}

// NRGBAWithAlpha returns a 1-row NRGBA image whose pixels carry the given
// colors with the given alpha, for exercising alpha flattening.
func NRGBAWithAlpha(colors []RGB, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for x, c := range colors {
		img.SetNRGBA(x, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha})
	}
	return img
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
