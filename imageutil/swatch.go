package imageutil

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultSwatchTile is the tile edge used when RenderSwatch gets tile <= 0.
const DefaultSwatchTile = 64

// RenderSwatch draws one square tile per palette color, left to right,
// each labelled with its #rrggbb value in black or white depending on
// the tile's luminance.
func RenderSwatch(colors []RGB, tile int) (*PixelBuffer, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tile <= 0 {
		tile = DefaultSwatchTile
	}

	ttf, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse swatch font: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, tile*len(colors), tile))
	size := max(6.0, float64(tile)/6)

	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	ascent := face.Metrics().Ascent.Ceil()

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(size)
	ctx.SetDst(img)
	ctx.SetHinting(font.HintingFull)

	for i, c := range colors {
		cell := image.Rect(i*tile, 0, (i+1)*tile, tile)
		draw.Draw(img, cell, image.NewUniform(c.ToColor()), image.Point{}, draw.Src)

		label := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		if Luminance(c) >= 128 {
			ctx.SetSrc(image.Black)
		} else {
			ctx.SetSrc(image.White)
		}
		ctx.SetClip(cell)

		textW := font.MeasureString(face, label).Ceil()
		x := cell.Min.X + max(0, (tile-textW)/2)
		y := (tile + ascent) / 2
		if _, err := ctx.DrawString(label, freetype.Pt(x, y)); err != nil {
			return nil, fmt.Errorf("failed to draw label %s: %w", label, err)
		}
	}

	return FromImage(img), nil
}
