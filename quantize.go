package dotcraft

import (
	"github.com/wbrown/dotcraft/imageutil"
)

// Palette is the output of a Quantizer: the representative colors and,
// for every input sample, the index of the color it maps to.
type Palette struct {
	Colors []imageutil.RGB
	Index  []int
}

// Quantizer reduces a set of color samples to at most k representative
// colors.
type Quantizer interface {
	Quantize(samples []imageutil.RGB, k int) Palette
}

// compact merges palette entries that ended up with the same color and
// drops entries no sample maps to, preserving first-use order.
func (p Palette) compact() Palette {
	remap := make([]int, len(p.Colors))
	for i := range remap {
		remap[i] = -1
	}
	seen := make(map[imageutil.RGB]int, len(p.Colors))
	out := Palette{Index: make([]int, len(p.Index))}

	for i, idx := range p.Index {
		if remap[idx] < 0 {
			c := p.Colors[idx]
			j, ok := seen[c]
			if !ok {
				j = len(out.Colors)
				out.Colors = append(out.Colors, c)
				seen[c] = j
			}
			remap[idx] = j
		}
		out.Index[i] = remap[idx]
	}
	return out
}

// render lays the palette-mapped samples out as a width x height buffer.
func (p Palette) render(width, height int) *imageutil.PixelBuffer {
	buf := imageutil.NewPixelBuffer(width, height)
	for i, idx := range p.Index {
		buf.SetRGB(i%width, i/width, p.Colors[idx])
	}
	return buf
}

// histEntry is one distinct color and how many samples carry it.
type histEntry struct {
	color imageutil.RGB
	count int
}

// histogram returns the distinct colors of samples in first-seen order.
func histogram(samples []imageutil.RGB) []histEntry {
	pos := make(map[imageutil.RGB]int)
	var entries []histEntry
	for _, s := range samples {
		i, ok := pos[s]
		if !ok {
			i = len(entries)
			pos[s] = i
			entries = append(entries, histEntry{color: s})
		}
		entries[i].count++
	}
	return entries
}

// channel returns component axis (0=R, 1=G, 2=B) of c.
func channel(c imageutil.RGB, axis int) uint8 {
	switch axis {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// meanColor averages the weighted sums, rounding to nearest.
func meanColor(sumR, sumG, sumB, count int) imageutil.RGB {
	if count == 0 {
		return imageutil.RGB{}
	}
	half := count / 2
	return imageutil.RGB{
		R: uint8((sumR + half) / count),
		G: uint8((sumG + half) / count),
		B: uint8((sumB + half) / count),
	}
}
