// Package plot draws radial power spectra on log-log axes, either as braille
// text for the terminal or as a PNG image.
package plot

import (
	"errors"
	"math"
	"strconv"

	"github.com/linuxmatters/radspec/internal/analysis"
	"github.com/linuxmatters/radspec/internal/config"
)

// ErrNothingToPlot means no series holds a point with positive coordinates
var ErrNothingToPlot = errors.New("nothing to plot on logarithmic axes")

// Series is one labelled curve. X and Y are parallel.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// Chart describes a multi-series log-log plot
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series

	// Hex colours, cycled across series
	Palette []string
}

// NewChart builds a chart with one series per result, in result order
func NewChart(results []analysis.Result, palette []string) Chart {
	c := Chart{
		Title:   config.ChartTitle,
		XLabel:  config.FrequencyLabel,
		YLabel:  config.PowerLabel,
		Palette: palette,
	}
	for _, r := range results {
		c.Series = append(c.Series, Series{Name: r.Name, X: r.Frequencies, Y: r.Powers})
	}
	return c
}

// color returns the palette entry for series i
func (c Chart) color(i int) string {
	palette := c.Palette
	if len(palette) == 0 {
		palette = config.DefaultPalette
	}
	return palette[i%len(palette)]
}

// point is a sample in log10 space
type point struct {
	x, y float64
}

// logPoints drops samples that cannot sit on logarithmic axes. The DC bin
// (frequency 0) is always one of them.
func logPoints(s Series) []point {
	n := min(len(s.X), len(s.Y))
	pts := make([]point, 0, n)
	for i := 0; i < n; i++ {
		x, y := s.X[i], s.Y[i]
		if x <= 0 || y <= 0 || math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		pts = append(pts, point{x: math.Log10(x), y: math.Log10(y)})
	}
	return pts
}

// bounds is the plotted range in log10 units
type bounds struct {
	xmin, xmax float64
	ymin, ymax float64
}

func (b bounds) sx(x float64) float64 { return (x - b.xmin) / (b.xmax - b.xmin) }
func (b bounds) sy(y float64) float64 { return (y - b.ymin) / (b.ymax - b.ymin) }

// dataBounds returns the log-space extent of every plottable point. Ranges
// narrower than a tenth of a decade are widened so the scale stays finite.
func dataBounds(series [][]point) (bounds, bool) {
	b := bounds{
		xmin: math.Inf(1), xmax: math.Inf(-1),
		ymin: math.Inf(1), ymax: math.Inf(-1),
	}
	found := false
	for _, pts := range series {
		for _, p := range pts {
			b.xmin = min(b.xmin, p.x)
			b.xmax = max(b.xmax, p.x)
			b.ymin = min(b.ymin, p.y)
			b.ymax = max(b.ymax, p.y)
			found = true
		}
	}
	if !found {
		return bounds{}, false
	}
	if b.xmax-b.xmin < 0.1 {
		b.xmin -= 0.5
		b.xmax += 0.5
	}
	if b.ymax-b.ymin < 0.1 {
		b.ymin -= 0.5
		b.ymax += 0.5
	}
	return b, true
}

// decades lists the integer powers of ten within [lo, hi]
func decades(lo, hi float64) []int {
	var out []int
	for d := int(math.Ceil(lo)); float64(d) <= hi; d++ {
		out = append(out, d)
	}
	return out
}

// decadeLabel formats 10^d the way a reader expects on an axis: 0.01, 1, 1e+06
func decadeLabel(d int) string {
	return strconv.FormatFloat(math.Pow(10, float64(d)), 'g', -1, 64)
}
