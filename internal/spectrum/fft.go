package spectrum

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Processor computes centred 2D power spectra for fields of one fixed shape.
// FFT plans and scratch buffers are reused between frames; not safe for concurrent use.
type Processor struct {
	rows, cols int

	rowFFT *fourier.CmplxFFT
	colFFT *fourier.CmplxFFT

	grid   []complex128 // rows*cols coefficients, row-major
	rowIn  []complex128
	colIn  []complex128
	colOut []complex128
}

// NewProcessor creates a processor for rows x cols fields
func NewProcessor(rows, cols int) *Processor {
	return &Processor{
		rows:   rows,
		cols:   cols,
		rowFFT: fourier.NewCmplxFFT(cols),
		colFFT: fourier.NewCmplxFFT(rows),
		grid:   make([]complex128, rows*cols),
		rowIn:  make([]complex128, cols),
		colIn:  make([]complex128, rows),
		colOut: make([]complex128, rows),
	}
}

// PowerSpectrum returns the shifted squared-magnitude spectrum of field
func (p *Processor) PowerSpectrum(field Field) Field {
	out := NewField(p.rows, p.cols)
	p.AccumulatePower(out, field)
	return out
}

// AccumulatePower adds the shifted power spectrum of field into dst.
// Both must match the processor's shape.
func (p *Processor) AccumulatePower(dst, field Field) {
	p.transform(field)

	rows, cols := p.rows, p.cols
	for r := 0; r < rows; r++ {
		// DC moves from (0, 0) to (rows/2, cols/2)
		sr := (r + rows/2) % rows
		for c := 0; c < cols; c++ {
			sc := (c + cols/2) % cols
			v := p.grid[r*cols+c]
			dst.Data[sr*cols+sc] += real(v)*real(v) + imag(v)*imag(v)
		}
	}
}

// transform fills p.grid with the unnormalised 2D DFT of field:
// every row, then every column of the row results.
func (p *Processor) transform(field Field) {
	rows, cols := p.rows, p.cols

	for r := 0; r < rows; r++ {
		row := field.Data[r*cols : (r+1)*cols]
		for c, v := range row {
			p.rowIn[c] = complex(v, 0)
		}
		p.rowFFT.Coefficients(p.grid[r*cols:(r+1)*cols], p.rowIn)
	}

	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			p.colIn[r] = p.grid[r*cols+c]
		}
		p.colFFT.Coefficients(p.colOut, p.colIn)
		for r := 0; r < rows; r++ {
			p.grid[r*cols+c] = p.colOut[r]
		}
	}
}

// PowerSpectrum is a one-shot helper for a single field
func PowerSpectrum(field Field) Field {
	if field.Empty() {
		return Field{}
	}
	return NewProcessor(field.Rows, field.Cols).PowerSpectrum(field)
}
