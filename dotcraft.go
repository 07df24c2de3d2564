// Package dotcraft turns photographs into pixel art. An image is sampled
// down to one pixel per block, its palette is reduced with one of three
// quantizers, and the result is scaled back up with hard edges.
//
// The package is pure: Transform performs no I/O, keeps no state between
// calls and never logs, so callers such as a live preview may run it
// repeatedly and simply drop stale results.
package dotcraft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wbrown/dotcraft/imageutil"
)

var (
	// ErrUnsupportedAlgorithm is returned when the requested quantization
	// algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.New("dotcraft: unsupported algorithm")

	// ErrInvalidParameters is returned for an empty input buffer or a
	// non-positive block or palette size.
	ErrInvalidParameters = errors.New("dotcraft: invalid parameters")
)

const (
	// MinBlockSize and MinPaletteSize are the floors Parameters.Clamped
	// enforces.
	MinBlockSize   = 2
	MinPaletteSize = 2
)

// Algorithm selects the palette reduction strategy.
type Algorithm int

const (
	// ClusterQuantize runs k-means in RGB space. It is randomized unless
	// Parameters.Seed is set.
	ClusterQuantize Algorithm = iota
	// MedianCutQuantize recursively splits the color histogram at the
	// median of its widest channel.
	MedianCutQuantize
	// OctreeQuantize folds the least populated branches of a color octree.
	OctreeQuantize
)

var algorithmNames = map[Algorithm]string{
	ClusterQuantize:   "kmeans",
	MedianCutQuantize: "median",
	OctreeQuantize:    "octree",
}

var algorithmAliases = map[string]Algorithm{
	"kmeans":     ClusterQuantize,
	"k-means":    ClusterQuantize,
	"cluster":    ClusterQuantize,
	"median":     MedianCutQuantize,
	"mediancut":  MedianCutQuantize,
	"median-cut": MedianCutQuantize,
	"octree":     OctreeQuantize,
	"fastoctree": OctreeQuantize,
}

// Algorithms lists every supported algorithm in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{ClusterQuantize, MedianCutQuantize, OctreeQuantize}
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm maps a user-facing name ("kmeans", "median", "octree" and
// a few aliases, case-insensitive) to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	if a, ok := algorithmAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Quantizer returns the strategy implementing a. seed only affects
// ClusterQuantize; nil means a fresh random seed per call.
func (a Algorithm) Quantizer(seed *uint64) (Quantizer, error) {
	switch a {
	case ClusterQuantize:
		return KMeansQuantizer{Seed: seed}, nil
	case MedianCutQuantize:
		return MedianCutQuantizer{}, nil
	case OctreeQuantize:
		return OctreeQuantizer{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, a)
	}
}

// Parameters is the immutable set of knobs for one Transform call.
type Parameters struct {
	// BlockSize is the edge, in source pixels, of each pixel-art cell.
	BlockSize int
	// PaletteSize is the maximum number of colors in the output.
	PaletteSize int
	Algorithm   Algorithm
	// Seed fixes the random source of ClusterQuantize. Nil draws a new
	// seed on every call.
	Seed *uint64
}

// DefaultParameters returns block size 10, 8 colors, k-means.
func DefaultParameters() Parameters {
	return Parameters{
		BlockSize:   10,
		PaletteSize: 8,
		Algorithm:   ClusterQuantize,
	}
}

// Clamped returns a copy with BlockSize and PaletteSize raised to their
// minimums. Callers are expected to clamp user input before Transform.
func (p Parameters) Clamped() Parameters {
	p.BlockSize = max(MinBlockSize, p.BlockSize)
	p.PaletteSize = max(MinPaletteSize, p.PaletteSize)
	return p
}

// WithSeed returns a copy of p whose ClusterQuantize runs are
// reproducible.
func (p Parameters) WithSeed(seed uint64) Parameters {
	p.Seed = &seed
	return p
}

// Result is the output of Pixelate.
type Result struct {
	// Image has the same dimensions as the input.
	Image *imageutil.PixelBuffer
	// Palette holds the distinct colors used by Image.
	Palette []imageutil.RGB
	// SmallWidth and SmallHeight are the dimensions of the block grid.
	SmallWidth, SmallHeight int
	// BlockSize is the block edge actually used, which is smaller than
	// the requested one when that exceeded the image.
	BlockSize int
}

// Transform renders buf as pixel art. The input is never modified and
// the returned buffer has the same dimensions.
func Transform(buf *imageutil.PixelBuffer, params Parameters) (*imageutil.PixelBuffer, error) {
	res, err := Pixelate(buf, params)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// Pixelate is Transform that also reports the palette and block grid.
func Pixelate(buf *imageutil.PixelBuffer, params Parameters) (*Result, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("%w: empty pixel buffer", ErrInvalidParameters)
	}
	if params.BlockSize < 1 || params.PaletteSize < 1 {
		return nil, fmt.Errorf("%w: block size %d, palette size %d",
			ErrInvalidParameters, params.BlockSize, params.PaletteSize)
	}
	quantizer, err := params.Algorithm.Quantizer(params.Seed)
	if err != nil {
		return nil, err
	}

	block := effectiveBlockSize(buf.Width, buf.Height, params.BlockSize)
	smallW, smallH := buf.Width/block, buf.Height/block

	// 1. One sample per block
	small := imageutil.Resize(buf, smallW, smallH, imageutil.InterpolationNearest)

	// 2. Palette reduction
	palette := quantizer.Quantize(small.Samples(), params.PaletteSize).compact()
	reduced := palette.render(smallW, smallH)

	// 3. Back to full size with hard edges
	out := imageutil.Resize(reduced, buf.Width, buf.Height, imageutil.InterpolationNearest)

	return &Result{
		Image:       out,
		Palette:     palette.Colors,
		SmallWidth:  smallW,
		SmallHeight: smallH,
		BlockSize:   block,
	}, nil
}

// effectiveBlockSize shrinks block so that the block grid is at least 1x1.
func effectiveBlockSize(width, height, block int) int {
	if width/block == 0 || height/block == 0 {
		return min(width, height)
	}
	return block
}
