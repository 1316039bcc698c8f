package spectrum

import (
	"github.com/linuxmatters/radspec/internal/config"
	"github.com/linuxmatters/radspec/internal/video"
)

// Luma converts an RGB frame to an 8-bit grayscale intensity field.
// Values are rounded to whole gray levels before widening to float64.
func Luma(frame video.Frame) Field {
	field := NewField(frame.Height, frame.Width)

	const half = 1 << (config.LumaShift - 1)
	pix := frame.Pix
	for i := range field.Data {
		r := uint32(pix[i*3])
		g := uint32(pix[i*3+1])
		b := uint32(pix[i*3+2])
		y := (r*config.LumaR + g*config.LumaG + b*config.LumaB + half) >> config.LumaShift
		field.Data[i] = float64(y)
	}

	return field
}
