// Package imageutil provides the pixel buffer, decoding and resampling
// primitives used by the dotcraft pixel-art pipeline.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB, discarding alpha.
// Straight (non-premultiplied) channel values are used so that
// translucent pixels keep their hue instead of darkening toward black.
func RGBFromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ChannelOrder describes the byte order of the samples in a PixelBuffer.
type ChannelOrder int

const (
	// OrderRGB stores red, green, blue.
	OrderRGB ChannelOrder = iota
	// OrderBGR stores blue, green, red (the OpenCV convention).
	OrderBGR
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderRGB:
		return "RGB"
	case OrderBGR:
		return "BGR"
	default:
		return "unknown"
	}
}

// PixelBuffer is a dense W×H grid of 3-channel 8-bit samples with no
// alpha. Pix holds Width*Height*3 bytes, row-major, and every row is
// contiguous (Stride == Width*3). Samples are always in OrderRGB.
//
// PixelBuffer implements draw.Image so it can be resampled by
// golang.org/x/image/draw and handed directly to image encoders.
type PixelBuffer struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int
}

// NewPixelBuffer creates a zeroed (black) buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		Pix:    make([]uint8, width*height*3),
		Stride: width * 3,
		Width:  width,
		Height: height,
	}
}

// Order returns the channel order of the buffer, which is fixed for the
// lifetime of the pipeline.
func (p *PixelBuffer) Order() ChannelOrder {
	return OrderRGB
}

// Empty reports whether the buffer has no pixels.
func (p *PixelBuffer) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0
}

func (p *PixelBuffer) offset(x, y int) int {
	return y*p.Stride + x*3
}

// GetRGB returns the RGB value at (x, y).
func (p *PixelBuffer) GetRGB(x, y int) RGB {
	i := p.offset(x, y)
	return RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

// SetRGB sets the RGB value at (x, y).
func (p *PixelBuffer) SetRGB(x, y int, c RGB) {
	i := p.offset(x, y)
	p.Pix[i] = c.R
	p.Pix[i+1] = c.G
	p.Pix[i+2] = c.B
}

// ColorModel implements image.Image.
func (p *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (p *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// At implements image.Image.
func (p *PixelBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(p.Bounds())) {
		return color.RGBA{}
	}
	return p.GetRGB(x, y).ToColor()
}

// Set implements draw.Image. Alpha is dropped.
func (p *PixelBuffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Bounds())) {
		return
	}
	p.SetRGB(x, y, RGBFromColor(c))
}

// Samples returns every pixel in row-major order.
func (p *PixelBuffer) Samples() []RGB {
	out := make([]RGB, 0, p.Width*p.Height)
	for y := 0; y < p.Height; y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+p.Width*3]
		for i := 0; i < len(row); i += 3 {
			out = append(out, RGB{R: row[i], G: row[i+1], B: row[i+2]})
		}
	}
	return out
}

// BGR returns a copy of the pixel data with red and blue swapped, for
// callers that display through a BGR API. The buffer itself is unchanged.
func (p *PixelBuffer) BGR() []uint8 {
	out := make([]uint8, len(p.Pix))
	for i := 0; i+2 < len(p.Pix); i += 3 {
		out[i] = p.Pix[i+2]
		out[i+1] = p.Pix[i+1]
		out[i+2] = p.Pix[i]
	}
	return out
}

// Clone creates a deep copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	clone := NewPixelBuffer(p.Width, p.Height)
	copy(clone.Pix, p.Pix)
	return clone
}

// FromImage converts any image.Image to a PixelBuffer.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			buf.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, RGBFromColor(img.At(x, y)))
		}
	}
	return buf
}

// ToRGBA converts the buffer to an opaque *image.RGBA.
func (p *PixelBuffer) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(p.Bounds())
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			rgba.SetRGBA(x, y, p.GetRGB(x, y).ToColor())
		}
	}
	return rgba
}

// CountColors returns the number of distinct colors in the buffer.
func (p *PixelBuffer) CountColors() int {
	seen := make(map[RGB]struct{})
	for _, c := range p.Samples() {
		seen[c] = struct{}{}
	}
	return len(seen)
}
