package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable means the video could not be opened at all
	ErrSourceUnreadable = errors.New("unreadable source")

	// ErrEmptySource means the video opened but yielded no frames
	ErrEmptySource = errors.New("empty source")

	// ErrDimensionMismatch means a frame's size differs from the first frame's
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Accumulator keeps the running sum of per-frame power spectra.
// It has no shape until the first frame arrives; after that every frame must match.
type Accumulator struct {
	sum       Field
	frames    int
	processor *Processor
}

// NewAccumulator creates an uninitialised accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Initialized reports whether the first frame has fixed the shape
func (a *Accumulator) Initialized() bool {
	return a.processor != nil
}

// Shape returns the accumulated spectrum's dimensions, zero before the first frame
func (a *Accumulator) Shape() (rows, cols int) {
	return a.sum.Rows, a.sum.Cols
}

// Frames returns the number of frames added so far
func (a *Accumulator) Frames() int {
	return a.frames
}

// Add computes the power spectrum of an intensity field and adds it to the sum
func (a *Accumulator) Add(field Field) error {
	if field.Empty() {
		return fmt.Errorf("frame %d has no pixels", a.frames)
	}
	if len(field.Data) != field.Rows*field.Cols {
		return fmt.Errorf("frame %d holds %d values, want %d", a.frames, len(field.Data), field.Rows*field.Cols)
	}

	if !a.Initialized() {
		a.sum = NewField(field.Rows, field.Cols)
		a.processor = NewProcessor(field.Rows, field.Cols)
	} else if !a.sum.SameShape(field) {
		return fmt.Errorf("%w: frame %d is %dx%d, first frame was %dx%d",
			ErrDimensionMismatch, a.frames, field.Cols, field.Rows, a.sum.Cols, a.sum.Rows)
	}

	a.processor.AccumulatePower(a.sum, field)
	a.frames++
	return nil
}

// Average returns the per-pixel mean power spectrum over all added frames
func (a *Accumulator) Average() (Field, error) {
	if a.frames == 0 {
		return Field{}, ErrEmptySource
	}

	avg := NewField(a.sum.Rows, a.sum.Cols)
	n := float64(a.frames)
	for i, v := range a.sum.Data {
		avg.Data[i] = v / n
	}
	return avg, nil
}
