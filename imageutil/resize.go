package imageutil

import (
	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationNearest uses nearest-neighbor interpolation. Every
	// destination pixel copies exactly one source pixel, so hard edges
	// survive both down- and upscaling. Equivalent to OpenCV's
	// INTER_NEAREST.
	InterpolationNearest Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR.
	InterpolationLinear

	// InterpolationArea uses Catmull-Rom, the closest equivalent to
	// OpenCV's INTER_AREA.
	InterpolationArea
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationArea:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// Resize returns a new buffer of the specified dimensions resampled from
// img with the given interpolation method. img is not modified.
//
// With InterpolationNearest the source sample for destination column dx
// is floor((2*dx+1) * srcW / (2*dstW)), i.e. the centre of the source
// span. When one size is an integer multiple of the other this maps
// whole blocks onto single pixels and back.
func Resize(img *PixelBuffer, width, height int, interp Interpolation) *PixelBuffer {
	dst := NewPixelBuffer(width, height)
	if img.Empty() || dst.Empty() {
		return dst
	}
	interp.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
