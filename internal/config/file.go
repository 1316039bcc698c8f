package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
// Pointer fields are nil when the key is absent, so only set keys override.
type FileConfig struct {
	Input InputConfig `toml:"input"`
	Plot  PlotConfig  `toml:"plot"`
}

// InputConfig maps the [input] table
type InputConfig struct {
	Dir     *string `toml:"dir" help:"Directory of videos, used when <dir> is not given"`
	Pattern *string `toml:"pattern" help:"File name glob"`
	Workers *int    `toml:"workers" help:"Videos analysed at once"`
}

// PlotConfig maps the [plot] table
type PlotConfig struct {
	Width     *int     `toml:"width" help:"Terminal plot width in cells"`
	Height    *int     `toml:"height" help:"Terminal plot height in rows"`
	Palette   []string `toml:"palette" help:"Series colours as #RRGGBB, cycled"`
	PNG       *string  `toml:"png" help:"Also write the chart to this PNG file"`
	PNGWidth  *int     `toml:"png-width" help:"PNG width in pixels"`
	PNGHeight *int     `toml:"png-height" help:"PNG height in pixels"`
}

// FileKey documents one key of the config file
type FileKey struct {
	Table string
	Name  string
	Help  string
}

// FileKeys lists every key the config file accepts, in declaration order
func FileKeys() []FileKey {
	var keys []FileKey
	root := reflect.TypeOf(FileConfig{})
	for i := range root.NumField() {
		table := root.Field(i)
		for j := range table.Type.NumField() {
			f := table.Type.Field(j)
			keys = append(keys, FileKey{
				Table: table.Tag.Get("toml"),
				Name:  f.Tag.Get("toml"),
				Help:  f.Tag.Get("help"),
			})
		}
	}
	return keys
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}

	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return fc, nil
}

// Apply overlays the keys present in the file onto cfg
func (fc FileConfig) Apply(cfg *Config) error {
	if fc.Input.Dir != nil {
		cfg.InputDir = *fc.Input.Dir
	}
	if fc.Input.Pattern != nil {
		cfg.Pattern = *fc.Input.Pattern
	}
	if fc.Input.Workers != nil {
		cfg.Workers = *fc.Input.Workers
	}

	if fc.Plot.Width != nil {
		cfg.PlotWidth = *fc.Plot.Width
	}
	if fc.Plot.Height != nil {
		cfg.PlotHeight = *fc.Plot.Height
	}
	if len(fc.Plot.Palette) > 0 {
		for _, hexColor := range fc.Plot.Palette {
			if _, _, _, err := ParseHexColor(hexColor); err != nil {
				return fmt.Errorf("plot.palette: %w", err)
			}
		}
		cfg.Palette = append([]string(nil), fc.Plot.Palette...)
	}
	if fc.Plot.PNG != nil {
		cfg.PNGPath = *fc.Plot.PNG
	}
	if fc.Plot.PNGWidth != nil {
		cfg.PNGWidth = *fc.Plot.PNGWidth
	}
	if fc.Plot.PNGHeight != nil {
		cfg.PNGHeight = *fc.Plot.PNGHeight
	}
	return nil
}
