package dotcraft

import (
	"testing"

	"github.com/wbrown/dotcraft/imageutil"
)

func TestSortByBrightness(t *testing.T) {
	white := imageutil.RGB{R: 255, G: 255, B: 255}
	red := imageutil.RGB{R: 255}
	black := imageutil.RGB{}
	blue := imageutil.RGB{B: 255}
	green := imageutil.RGB{G: 255}

	colors := []imageutil.RGB{white, red, black, green, blue}
	SortByBrightness(colors)

	want := []imageutil.RGB{black, blue, red, green, white}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("Position %d: expected %v, got %v", i, want[i], colors[i])
		}
	}
}

func TestSortByBrightnessStable(t *testing.T) {
	a := imageutil.RGB{R: 10, G: 10, B: 10}
	colors := []imageutil.RGB{a, a, {}}
	SortByBrightness(colors)
	if colors[0] != (imageutil.RGB{}) || colors[1] != a || colors[2] != a {
		t.Errorf("Unexpected order %v", colors)
	}
}

func TestHexPalette(t *testing.T) {
	got := HexPalette([]imageutil.RGB{{R: 255, B: 128}, {}, {R: 1, G: 2, B: 3}})
	want := []string{"#ff0080", "#000000", "#010203"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPixelatePaletteReport(t *testing.T) {
	src := imageutil.CreateColorBarsImage(80, 8)
	res, err := Pixelate(src, Parameters{BlockSize: 4, PaletteSize: 8, Algorithm: OctreeQuantize})
	if err != nil {
		t.Fatalf("Pixelate failed: %v", err)
	}

	SortByBrightness(res.Palette)
	hex := HexPalette(res.Palette)
	if hex[0] != "#000000" || hex[len(hex)-1] != "#ffffff" {
		t.Errorf("Expected black first and white last, got %v", hex)
	}
}
