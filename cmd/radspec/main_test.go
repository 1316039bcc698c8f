package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/radspec/internal/analysis"
	"github.com/linuxmatters/radspec/internal/config"
	"github.com/linuxmatters/radspec/internal/plot"
)

func chartConfig(pngPath string) config.Config {
	cfg := config.Default()
	cfg.InputDir = "."
	cfg.PlotWidth = 60
	cfg.PNGPath = pngPath
	cfg.PNGWidth = 640
	cfg.PNGHeight = 400
	return cfg
}

func result(name string, powers ...float64) analysis.Result {
	freqs := make([]float64, len(powers))
	for i := range freqs {
		freqs[i] = float64(i) / 8
	}
	return analysis.Result{Name: name, Frequencies: freqs, Powers: powers}
}

// TestDrawCharts_AllZero verifies a run whose spectra hold nothing beyond DC
// is a warning, not a failure, and skips the PNG as well as the terminal plot.
func TestDrawCharts_AllZero(t *testing.T) {
	pngPath := filepath.Join(t.TempDir(), "chart.png")
	chart := plot.NewChart([]analysis.Result{result("flat.mov", 8100, 0, 0, 0)}, nil)

	var out bytes.Buffer
	drawn, err := drawCharts(&out, chart, chartConfig(pngPath))
	if err != nil {
		t.Fatalf("drawCharts() error = %v", err)
	}
	if drawn {
		t.Error("drawCharts() reported a chart for all-zero spectra")
	}
	if out.Len() != 0 {
		t.Errorf("terminal output = %q, want nothing", out.String())
	}
	if _, err := os.Stat(pngPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("PNG was written for an empty chart (stat error = %v)", err)
	}
}

func TestDrawCharts_WritesPNG(t *testing.T) {
	pngPath := filepath.Join(t.TempDir(), "chart.png")
	chart := plot.NewChart([]analysis.Result{result("noisy.mov", 8100, 40, 10, 2.5)}, nil)

	var out bytes.Buffer
	drawn, err := drawCharts(&out, chart, chartConfig(pngPath))
	if err != nil {
		t.Fatalf("drawCharts() error = %v", err)
	}
	if !drawn {
		t.Error("drawCharts() reported nothing drawn")
	}
	if out.Len() == 0 {
		t.Error("no terminal plot written")
	}
	if fi, err := os.Stat(pngPath); err != nil || fi.Size() == 0 {
		t.Errorf("PNG not written: %v", err)
	}
}

// TestDrawCharts_PNGFailure verifies a real PNG error still fails the run
func TestDrawCharts_PNGFailure(t *testing.T) {
	pngPath := filepath.Join(t.TempDir(), "missing", "chart.png")
	chart := plot.NewChart([]analysis.Result{result("noisy.mov", 8100, 40, 10, 2.5)}, nil)

	if _, err := drawCharts(&bytes.Buffer{}, chart, chartConfig(pngPath)); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
