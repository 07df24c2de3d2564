package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/wbrown/dotcraft"
	"github.com/wbrown/dotcraft/imageutil"
)

func newPixelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pixelate",
		Short: "Render an image as pixel art with a reduced palette",
		Args:  cobra.NoArgs,
		RunE:  runPixelate,
	}

	defaults := dotcraft.DefaultParameters()
	cmd.Flags().StringP("input", "i", "", "Input image (PNG, JPEG, GIF, BMP, TIFF or WebP)")
	cmd.Flags().StringP("output", "o", "", "Output image, format chosen by extension")
	cmd.Flags().IntP("block", "b", defaults.BlockSize, "Block size in source pixels")
	cmd.Flags().IntP("colors", "k", defaults.PaletteSize, "Maximum number of palette colors")
	cmd.Flags().StringP("algorithm", "a", defaults.Algorithm.String(), "Quantizer: kmeans, median or octree")
	cmd.Flags().Uint64("seed", 0, "Fix the k-means random seed")
	cmd.Flags().String("preset", "", "YAML file with block_size, palette_size, algorithm and seed")
	cmd.Flags().String("swatch", "", "Also write a palette swatch image to this path")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runPixelate(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	swatchPath, _ := cmd.Flags().GetString("swatch")

	requested, err := resolveParameters(cmd)
	if err != nil {
		return err
	}
	params := requested.Clamped()
	if params.BlockSize != requested.BlockSize || params.PaletteSize != requested.PaletteSize {
		log.Warn("parameters raised to minimum",
			"block", params.BlockSize, "colors", params.PaletteSize)
	}

	src, err := imageutil.LoadImage(inputPath)
	if err != nil {
		return err
	}
	log.Debug("loaded image", "path", inputPath, "width", src.Width, "height", src.Height)

	start := time.Now()
	res, err := dotcraft.Pixelate(src, params)
	if err != nil {
		return err
	}
	if res.BlockSize != params.BlockSize {
		log.Warn("block size exceeds image, clamped",
			"requested", params.BlockSize, "used", res.BlockSize)
	}
	log.Info("pixelated",
		"algorithm", params.Algorithm,
		"grid", fmt.Sprintf("%dx%d", res.SmallWidth, res.SmallHeight),
		"colors", len(res.Palette),
		"elapsed", time.Since(start))

	if err := imageutil.SaveImage(res.Image, outputPath); err != nil {
		return err
	}
	log.Info("wrote image", "path", outputPath)

	dotcraft.SortByBrightness(res.Palette)
	for _, hex := range dotcraft.HexPalette(res.Palette) {
		fmt.Fprintln(cmd.OutOrStdout(), hex)
	}

	if swatchPath != "" {
		swatch, err := imageutil.RenderSwatch(res.Palette, imageutil.DefaultSwatchTile)
		if err != nil {
			return err
		}
		if err := imageutil.SaveImage(swatch, swatchPath); err != nil {
			return err
		}
		log.Info("wrote swatch", "path", swatchPath)
	}
	return nil
}
