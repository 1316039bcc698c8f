package config

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Input settings
const (
	DefaultPattern = "*.mov" // Glob matched against file names in the input directory
	DefaultWorkers = 1       // Videos analysed at once; 1 keeps the run strictly sequential
)

// Intensity conversion: BT.601 luma weights in 14-bit fixed point.
// The weights sum to 1<<LumaShift, so a neutral gray maps to itself.
const (
	LumaR     = 4899
	LumaG     = 9617
	LumaB     = 1868
	LumaShift = 14
)

// Terminal plot settings
const (
	PlotWidth  = 0  // Plot width in cells, 0 = fit the terminal
	PlotHeight = 18 // Plot height in rows
)

// PNG chart settings
const (
	PNGWidth    = 1280
	PNGHeight   = 720
	PNGFontSize = 16.0
)

// Chart labels
const (
	ChartTitle     = "Radial power spectrum"
	FrequencyLabel = "Spatial frequency (cycles/pixel)"
	PowerLabel     = "Mean power"
)

// ProgressEvery is the number of decoded frames between progress updates
const ProgressEvery = 10

// DefaultPalette holds the series colours, cycled when there are more videos than colours
var DefaultPalette = []string{
	"#E6194B", // Red
	"#3CB44B", // Green
	"#4363D8", // Blue
	"#F58231", // Orange
	"#911EB4", // Purple
	"#42D4F4", // Cyan
	"#F032E6", // Magenta
	"#BFEF45", // Lime
}

// Config is the resolved runtime configuration for one run
type Config struct {
	InputDir string
	Pattern  string
	Workers  int

	PlotWidth  int
	PlotHeight int
	Palette    []string

	// PNGPath enables the raster chart when non-empty
	PNGPath   string
	PNGWidth  int
	PNGHeight int

	ProgressEvery int
}

// Default returns the built-in configuration
func Default() Config {
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)

	return Config{
		Pattern:       DefaultPattern,
		Workers:       DefaultWorkers,
		PlotWidth:     PlotWidth,
		PlotHeight:    PlotHeight,
		Palette:       palette,
		PNGWidth:      PNGWidth,
		PNGHeight:     PNGHeight,
		ProgressEvery: ProgressEvery,
	}
}

// Validate reports the first setting that cannot be used
func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Pattern == "" {
		return fmt.Errorf("file pattern is empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers value: %d (must be at least 1)", c.Workers)
	}
	if c.PlotWidth < 0 {
		return fmt.Errorf("invalid plot width: %d", c.PlotWidth)
	}
	if c.PlotHeight < 2 {
		return fmt.Errorf("invalid plot height: %d (must be at least 2)", c.PlotHeight)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette is empty")
	}
	for _, hexColor := range c.Palette {
		if _, _, _, err := ParseHexColor(hexColor); err != nil {
			return err
		}
	}
	if c.PNGPath != "" && (c.PNGWidth < 200 || c.PNGHeight < 150) {
		return fmt.Errorf("PNG size %dx%d is too small (minimum 200x150)", c.PNGWidth, c.PNGHeight)
	}
	if c.ProgressEvery < 1 {
		return fmt.Errorf("invalid progress interval: %d", c.ProgressEvery)
	}
	return nil
}

// ParseHexColor parses "RRGGBB" or "#RRGGBB" into its components
func ParseHexColor(s string) (r, g, b uint8, err error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: want 6 hex digits", s)
	}

	raw, err := hex.DecodeString(digits)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}

	return raw[0], raw[1], raw[2], nil
}
