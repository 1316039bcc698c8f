package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/radspec/internal/config"
	"golang.org/x/term"
)

const (
	minPlotWidth        = 10
	minPlotHeight       = 4
	terminalWidthBackup = 80
	axisSeparator       = " │"
	axisCorner          = " └"
)

type lineStyle struct {
	name   string
	period int
	on     int
}

// Cycled alongside colours so overlapping series stay distinguishable without colour
var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

// Terminal renders c as a braille log-log plot. width is the total line
// width in cells, 0 to fit the terminal; height is the number of plot rows.
func Terminal(w io.Writer, c Chart, width, height int) error {
	series := make([][]point, len(c.Series))
	for i, s := range c.Series {
		series[i] = logPoints(s)
	}
	b, ok := dataBounds(series)
	if !ok {
		return ErrNothingToPlot
	}

	if height <= 0 {
		height = config.PlotHeight
	}
	height = max(height, minPlotHeight)
	if width <= 0 {
		width = terminalWidth()
	}

	yTicks := decades(b.ymin, b.ymax)
	labelWidth := 0
	for _, d := range yTicks {
		labelWidth = max(labelWidth, len(decadeLabel(d)))
	}
	plotWidth := max(width-labelWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
	dotsX, dotsY := plotWidth*2, height*4

	cells := make([][][]uint8, len(series))
	for si, pts := range series {
		cells[si] = makeCells(height, plotWidth)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for _, p := range pts {
			px := scaleDot(b.sx(p.x), dotsX)
			py := dotsY - 1 - scaleDot(b.sy(p.y), dotsY)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(x, y int) {
					if style.shouldPlot(x) {
						setBrailleDot(cells[si], x, y)
					}
				})
			} else {
				setBrailleDot(cells[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	r := lipgloss.NewRenderer(w)
	faint := r.NewStyle().Faint(true)
	seriesStyles := make([]lipgloss.Style, len(series))
	for i := range series {
		seriesStyles[i] = r.NewStyle().Foreground(lipgloss.Color(c.color(i)))
	}

	rowLabels := make([]string, height)
	for _, d := range yTicks {
		row := (dotsY - 1 - scaleDot(b.sy(float64(d)), dotsY)) / 4
		rowLabels[row] = decadeLabel(d)
	}

	var out strings.Builder
	if c.Title != "" {
		out.WriteString(r.NewStyle().Bold(true).Render(c.Title))
		out.WriteString("\n")
	}
	if c.YLabel != "" {
		out.WriteString(faint.Render(c.YLabel))
		out.WriteString("\n")
	}

	for y := 0; y < height; y++ {
		fmt.Fprintf(&out, "%*s%s", labelWidth, rowLabels[y], axisSeparator)
		for x := 0; x < plotWidth; x++ {
			mask, idx := composeCell(cells, x, y)
			ch := brailleFromMask(mask)
			if idx >= 0 {
				out.WriteString(seriesStyles[idx].Render(string(ch)))
			} else {
				out.WriteRune(ch)
			}
		}
		out.WriteString("\n")
	}

	indent := strings.Repeat(" ", labelWidth+utf8.RuneCountInString(axisSeparator))
	out.WriteString(strings.Repeat(" ", labelWidth))
	out.WriteString(axisCorner)
	out.WriteString(strings.Repeat("─", plotWidth))
	out.WriteString("\n")
	out.WriteString(indent)
	out.WriteString(xTickLine(b, plotWidth))
	out.WriteString("\n")

	if c.XLabel != "" {
		pad := max((plotWidth-utf8.RuneCountInString(c.XLabel))/2, 0)
		out.WriteString(indent)
		out.WriteString(strings.Repeat(" ", pad))
		out.WriteString(faint.Render(c.XLabel))
		out.WriteString("\n")
	}

	out.WriteString(renderLegend(c, seriesStyles, faint))
	out.WriteString("\n")

	_, err := io.WriteString(w, out.String())
	return err
}

// xTickLine places a label under each decade on the frequency axis,
// dropping any that would overlap its left neighbour
func xTickLine(b bounds, plotWidth int) string {
	line := []rune(strings.Repeat(" ", plotWidth))
	nextFree := 0
	for _, d := range decades(b.xmin, b.xmax) {
		label := []rune(decadeLabel(d))
		if len(label) > plotWidth {
			continue
		}
		col := scaleDot(b.sx(float64(d)), plotWidth*2) / 2
		start := min(max(col-len(label)/2, 0), plotWidth-len(label))
		if start < nextFree {
			continue
		}
		copy(line[start:], label)
		nextFree = start + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func renderLegend(c Chart, styles []lipgloss.Style, faint lipgloss.Style) string {
	marker := brailleFromMask(0xFF)
	parts := make([]string, 0, len(c.Series))
	for i, s := range c.Series {
		label := styles[i].Render(fmt.Sprintf("%c %s", marker, s.Name))
		label += " " + faint.Render("("+lineStyles[i%len(lineStyles)].name+")")
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// scaleDot maps a fraction in [0, 1] onto n dot positions
func scaleDot(f float64, n int) int {
	if n <= 1 {
		return 0
	}
	d := int(math.Round(f * float64(n-1)))
	return min(max(d, 0), n-1)
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges every series' dots in a cell; the colour goes to the
// first series present
func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) || x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// drawLine walks a Bresenham line between two dot positions
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cellY, cellX := y/4, x/2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask returns the Unicode braille bit for a dot in a 2x4 cell
func brailleDotMask(x, y int) uint8 {
	if x == 0 {
		return [4]uint8{0x01, 0x02, 0x04, 0x40}[y]
	}
	return [4]uint8{0x08, 0x10, 0x20, 0x80}[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
