package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wbrown/dotcraft"
	"gopkg.in/yaml.v3"
)

// preset is a saved parameter set. Absent keys leave the defaults alone.
type preset struct {
	BlockSize   *int    `yaml:"block_size"`
	PaletteSize *int    `yaml:"palette_size"`
	Algorithm   *string `yaml:"algorithm"`
	Seed        *uint64 `yaml:"seed"`
}

func loadPreset(path string) (*preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}
	return parsePreset(data)
}

func parsePreset(data []byte) (*preset, error) {
	var p preset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	return &p, nil
}

// apply copies the keys present in p onto params.
func (p *preset) apply(params *dotcraft.Parameters) error {
	if p.BlockSize != nil {
		params.BlockSize = *p.BlockSize
	}
	if p.PaletteSize != nil {
		params.PaletteSize = *p.PaletteSize
	}
	if p.Algorithm != nil {
		a, err := dotcraft.ParseAlgorithm(*p.Algorithm)
		if err != nil {
			return fmt.Errorf("preset: %w", err)
		}
		params.Algorithm = a
	}
	if p.Seed != nil {
		*params = params.WithSeed(*p.Seed)
	}
	return nil
}

// resolveParameters layers defaults, the --preset file and then any flag
// the user set explicitly.
func resolveParameters(cmd *cobra.Command) (dotcraft.Parameters, error) {
	params := dotcraft.DefaultParameters()
	flags := cmd.Flags()

	if path, _ := flags.GetString("preset"); path != "" {
		p, err := loadPreset(path)
		if err != nil {
			return params, err
		}
		if err := p.apply(&params); err != nil {
			return params, err
		}
	}

	if flags.Changed("block") {
		params.BlockSize, _ = flags.GetInt("block")
	}
	if flags.Changed("colors") {
		params.PaletteSize, _ = flags.GetInt("colors")
	}
	if flags.Changed("algorithm") {
		name, _ := flags.GetString("algorithm")
		a, err := dotcraft.ParseAlgorithm(name)
		if err != nil {
			return params, err
		}
		params.Algorithm = a
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetUint64("seed")
		params = params.WithSeed(seed)
	}
	return params, nil
}
