package dotcraft

import (
	"slices"

	"github.com/wbrown/dotcraft/imageutil"
)

// MedianCutQuantizer splits the color histogram into boxes. The box with
// the widest channel range is cut along that channel at its pixel-weighted
// median until there are k boxes or every box holds a single color. Each
// sample maps to the weighted mean of its box.
type MedianCutQuantizer struct{}

type colorBox struct {
	entries []histEntry
	count   int
	axis    int
	span    int
}

func newColorBox(entries []histEntry) *colorBox {
	b := &colorBox{entries: entries}
	lo := [3]int{255, 255, 255}
	hi := [3]int{}
	for _, e := range entries {
		b.count += e.count
		for axis := 0; axis < 3; axis++ {
			v := int(channel(e.color, axis))
			lo[axis] = min(lo[axis], v)
			hi[axis] = max(hi[axis], v)
		}
	}
	// Widest channel, R before G before B on ties
	b.span = -1
	for axis := 0; axis < 3; axis++ {
		if r := hi[axis] - lo[axis]; r > b.span {
			b.axis, b.span = axis, r
		}
	}
	return b
}

// split cuts the box at the weighted median of its widest channel. Both
// halves are guaranteed to be non-empty.
func (b *colorBox) split() (*colorBox, *colorBox) {
	axis := b.axis
	slices.SortFunc(b.entries, func(x, y histEntry) int {
		for a := 0; a < 3; a++ {
			ax := (axis + a) % 3
			if d := int(channel(x.color, ax)) - int(channel(y.color, ax)); d != 0 {
				return d
			}
		}
		return 0
	})

	half := (b.count + 1) / 2
	cut, acc := 1, 0
	for i, e := range b.entries {
		acc += e.count
		if acc >= half {
			cut = i + 1
			break
		}
	}
	cut = max(1, min(cut, len(b.entries)-1))

	return newColorBox(b.entries[:cut]), newColorBox(b.entries[cut:])
}

func (b *colorBox) mean() imageutil.RGB {
	var r, g, bl int
	for _, e := range b.entries {
		r += int(e.color.R) * e.count
		g += int(e.color.G) * e.count
		bl += int(e.color.B) * e.count
	}
	return meanColor(r, g, bl, b.count)
}

// Quantize implements Quantizer.
func (MedianCutQuantizer) Quantize(samples []imageutil.RGB, k int) Palette {
	if len(samples) == 0 || k <= 0 {
		return Palette{Index: make([]int, len(samples))}
	}

	boxes := []*colorBox{newColorBox(histogram(samples))}
	for len(boxes) < k {
		pick := -1
		for i, b := range boxes {
			if len(b.entries) < 2 {
				continue
			}
			if pick < 0 || b.span > boxes[pick].span ||
				(b.span == boxes[pick].span && b.count > boxes[pick].count) {
				pick = i
			}
		}
		if pick < 0 {
			break
		}
		left, right := boxes[pick].split()
		boxes[pick] = left
		boxes = slices.Insert(boxes, pick+1, right)
	}

	colors := make([]imageutil.RGB, len(boxes))
	boxOf := make(map[imageutil.RGB]int)
	for i, b := range boxes {
		colors[i] = b.mean()
		for _, e := range b.entries {
			boxOf[e.color] = i
		}
	}

	index := make([]int, len(samples))
	for i, s := range samples {
		index[i] = boxOf[s]
	}
	return Palette{Colors: colors, Index: index}
}
