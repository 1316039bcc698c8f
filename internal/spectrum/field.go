// Package spectrum accumulates 2D power spectra of video frames and reduces
// them to radial profiles.
package spectrum

// Field is a row-major 2D grid of float64 values
type Field struct {
	Rows int
	Cols int
	Data []float64
}

// NewField allocates a zeroed rows x cols field
func NewField(rows, cols int) Field {
	return Field{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// At returns the value at row r, column c
func (f Field) At(r, c int) float64 {
	return f.Data[r*f.Cols+c]
}

// Set stores v at row r, column c
func (f Field) Set(r, c int, v float64) {
	f.Data[r*f.Cols+c] = v
}

// SameShape reports whether both fields have identical dimensions
func (f Field) SameShape(other Field) bool {
	return f.Rows == other.Rows && f.Cols == other.Cols
}

// Empty reports whether the field has no cells
func (f Field) Empty() bool {
	return f.Rows == 0 || f.Cols == 0
}
