package video

import (
	"context"
	"fmt"
)

// Frame is a single decoded picture as packed 8-bit RGB, row by row
type Frame struct {
	Width  int
	Height int
	Pix    []byte // len = Width*Height*3, channel order R, G, B
}

// StreamInfo describes the video stream a decoder was opened on
type StreamInfo struct {
	Width     int
	Height    int
	Codec     string
	FrameRate float64

	// Frames is the container's frame count, 0 when the container does not say
	Frames int

	// Rotation is the display rotation in degrees. Decoded frames are never
	// rotated, so Width and Height always describe the pixels delivered.
	Rotation int
}

// Decoder defines the interface for video frame decoders
type Decoder interface {
	// ReadFrame returns the next frame, or io.EOF once the stream is exhausted
	ReadFrame() (Frame, error)

	// Info returns the stream properties learned when the decoder was opened
	Info() StreamInfo

	// Close releases the decoder. Calling it more than once is allowed.
	Close() error
}

// OpenFunc opens a decoder for the video at path
type OpenFunc func(ctx context.Context, path string) (Decoder, error)

// NewFrame allocates a black frame of the given size
func NewFrame(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// RGB returns the components of the pixel at (x, y)
func (f Frame) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Validate checks that the pixel buffer matches the declared size
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * 3; len(f.Pix) != want {
		return fmt.Errorf("frame buffer holds %d bytes, want %d for %dx%d RGB", len(f.Pix), want, f.Width, f.Height)
	}
	return nil
}
