package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/radspec/internal/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Plot area margins in pixels
const (
	marginLeft   = 110
	marginRight  = 40
	marginTop    = 60
	marginBottom = 90

	lineWidth  = 2.5
	swatchSize = 14
)

var (
	backgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	axisColor       = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	gridColor       = color.RGBA{R: 225, G: 225, B: 225, A: 255}
	textColor       = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

// PNG renders c as a width x height image and writes it to path
func PNG(path string, c Chart, width, height int) error {
	img, err := RenderImage(c, width, height)
	if err != nil {
		return err
	}
	if err := savePNG(img, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// RenderImage draws c on a new image
func RenderImage(c Chart, width, height int) (*image.RGBA, error) {
	if width <= marginLeft+marginRight || height <= marginTop+marginBottom {
		return nil, fmt.Errorf("chart size %dx%d is too small", width, height)
	}

	series := make([][]point, len(c.Series))
	for i, s := range c.Series {
		series[i] = logPoints(s)
	}
	b, ok := dataBounds(series)
	if !ok {
		return nil, ErrNothingToPlot
	}

	colors := make([]color.RGBA, len(c.Series))
	for i := range c.Series {
		r, g, bl, err := config.ParseHexColor(c.color(i))
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", c.Series[i].Name, err)
		}
		colors[i] = color.RGBA{R: r, G: g, B: bl, A: 255}
	}

	parsedFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{Size: config.PNGFontSize, DPI: 72})
	defer face.Close()
	titleFace := truetype.NewFace(parsedFont, &truetype.Options{Size: config.PNGFontSize * 1.4, DPI: 72})
	defer titleFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	area := image.Rect(marginLeft, marginTop, width-marginRight, height-marginBottom)
	toPixel := func(p point) (float32, float32) {
		x := float64(area.Min.X) + b.sx(p.x)*float64(area.Dx()-1)
		y := float64(area.Max.Y-1) - b.sy(p.y)*float64(area.Dy()-1)
		return float32(x), float32(y)
	}

	// Decade grid and tick labels
	for _, d := range decades(b.xmin, b.xmax) {
		x, _ := toPixel(point{x: float64(d), y: b.ymin})
		fillRect(img, image.Rect(int(x), area.Min.Y, int(x)+1, area.Max.Y), gridColor)
		label := decadeLabel(d)
		w, _ := measureText(face, label)
		drawText(img, face, label, int(x)-w/2, area.Max.Y+22, textColor)
	}
	for _, d := range decades(b.ymin, b.ymax) {
		_, y := toPixel(point{x: b.xmin, y: float64(d)})
		fillRect(img, image.Rect(area.Min.X, int(y), area.Max.X, int(y)+1), gridColor)
		label := decadeLabel(d)
		w, tb := measureText(face, label)
		h := (tb.Max.Y - tb.Min.Y).Ceil()
		drawText(img, face, label, area.Min.X-10-w, int(y)+h/2, textColor)
	}

	// Axes
	fillRect(img, image.Rect(area.Min.X, area.Min.Y, area.Min.X+1, area.Max.Y), axisColor)
	fillRect(img, image.Rect(area.Min.X, area.Max.Y-1, area.Max.X, area.Max.Y), axisColor)

	for si, pts := range series {
		if len(pts) == 0 {
			continue
		}
		z := vector.NewRasterizer(width, height)
		z.DrawOp = draw.Over
		px, py := toPixel(pts[0])
		if len(pts) == 1 {
			addSegment(z, px-lineWidth, py, px+lineWidth, py, lineWidth)
		}
		for _, p := range pts[1:] {
			x, y := toPixel(p)
			addSegment(z, px, py, x, y, lineWidth)
			px, py = x, y
		}
		z.Draw(img, img.Bounds(), image.NewUniform(colors[si]), image.Point{})
	}

	// Labels
	if c.Title != "" {
		w, _ := measureText(titleFace, c.Title)
		drawText(img, titleFace, c.Title, (width-w)/2, marginTop/2+8, textColor)
	}
	if c.XLabel != "" {
		w, _ := measureText(face, c.XLabel)
		drawText(img, face, c.XLabel, area.Min.X+(area.Dx()-w)/2, height-marginBottom/3, textColor)
	}
	if c.YLabel != "" {
		drawVerticalText(img, face, c.YLabel, 12, area.Min.Y+area.Dy()/2, textColor)
	}

	drawLegend(img, face, c, colors, area)

	return img, nil
}

// addSegment adds a line of the given thickness as a closed quad
func addSegment(z *vector.Rasterizer, x0, y0, x1, y1, thickness float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	// Half-thickness normal, plus a half-thickness extension so joints overlap
	nx, ny := -dy/length*thickness/2, dx/length*thickness/2
	ex, ey := dx/length*thickness/2, dy/length*thickness/2
	x0, y0 = x0-ex, y0-ey
	x1, y1 = x1+ex, y1+ey

	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}

// drawLegend stacks a colour swatch and name per series in the top-right corner of the plot area
func drawLegend(img *image.RGBA, face font.Face, c Chart, colors []color.RGBA, area image.Rectangle) {
	if len(c.Series) == 0 {
		return
	}
	maxWidth := 0
	for _, s := range c.Series {
		w, _ := measureText(face, s.Name)
		maxWidth = max(maxWidth, w)
	}
	lineHeight := face.Metrics().Height.Ceil() + 4
	boxW := swatchSize + 8 + maxWidth + 16
	boxH := lineHeight*len(c.Series) + 8

	box := image.Rect(area.Max.X-boxW-10, area.Min.Y+10, area.Max.X-10, area.Min.Y+10+boxH)
	fillRect(img, box, backgroundColor)
	outline(img, box, gridColor)

	for i, s := range c.Series {
		top := box.Min.Y + 4 + i*lineHeight
		swatch := image.Rect(box.Min.X+8, top+(lineHeight-swatchSize)/2, box.Min.X+8+swatchSize, top+(lineHeight+swatchSize)/2)
		fillRect(img, swatch, colors[i])
		drawText(img, face, s.Name, swatch.Max.X+8, top+lineHeight-6, textColor)
	}
}

// measureText returns the width and bounds of rendered text
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	tb, _ := d.BoundString(text)
	return (tb.Max.X - tb.Min.X).Ceil(), tb
}

// drawText draws text with its baseline at y
func drawText(img *image.RGBA, face font.Face, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	d.Dot = freetype.Pt(x, y)
	d.DrawString(text)
}

// drawVerticalText draws text rotated 90° anticlockwise, left edge at x and
// centred vertically on cy
func drawVerticalText(img *image.RGBA, face font.Face, text string, x, cy int, col color.Color) {
	w, tb := measureText(face, text)
	h := (tb.Max.Y - tb.Min.Y).Ceil()
	if w == 0 || h == 0 {
		return
	}

	tempImg := image.NewRGBA(image.Rect(0, 0, w, h))
	drawText(tempImg, face, text, -tb.Min.X.Floor(), -tb.Min.Y.Ceil(), col)

	// (x, y) -> (y, w - x)
	m := f64.Aff3{
		0, 1, 0,
		-1, 0, float64(w),
	}
	rotatedImg := image.NewRGBA(image.Rect(0, 0, h, w))
	draw.BiLinear.Transform(rotatedImg, m, tempImg, tempImg.Bounds(), draw.Over, nil)

	dest := image.Rect(x, cy-w/2, x+h, cy-w/2+w)
	draw.Draw(img, dest, rotatedImg, image.Point{}, draw.Over)
}

func fillRect(img *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func outline(img *image.RGBA, r image.Rectangle, col color.Color) {
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), col)
	fillRect(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// savePNG saves the chart to a PNG file
func savePNG(img *image.RGBA, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	return png.Encode(outFile, img)
}
