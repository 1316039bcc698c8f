package spectrum

import "math"

// RadialProfile averages field over rings of integer radius around its centre.
//
// The centre is ((Cols-1)/2, (Rows-1)/2). Each cell falls in the bin given by
// its distance to the centre truncated to an integer. The result has one entry
// per radius from 0 to ceil(centre-to-corner distance); a bin with no cells
// reports its raw sum, 0, instead of NaN so indices stay aligned with the
// frequency axis.
func RadialProfile(field Field) []float64 {
	if field.Empty() {
		return nil
	}

	cx := float64(field.Cols-1) / 2
	cy := float64(field.Rows-1) / 2
	maxRadius := int(math.Ceil(math.Hypot(cx, cy)))

	sums := make([]float64, maxRadius+1)
	counts := make([]int, maxRadius+1)

	for r := 0; r < field.Rows; r++ {
		dy := float64(r) - cy
		row := field.Data[r*field.Cols : (r+1)*field.Cols]
		for c, v := range row {
			bin := int(math.Hypot(float64(c)-cx, dy))
			sums[bin] += v
			counts[bin]++
		}
	}

	for i, n := range counts {
		if n > 0 {
			sums[i] /= float64(n)
		}
	}
	return sums
}

// FrequencyAxis converts n radius indices to spatial frequency in cycles per
// pixel for a rows x cols spectrum: f[i] = i / min(rows, cols).
func FrequencyAxis(n, rows, cols int) []float64 {
	freqs := make([]float64, n)
	side := min(rows, cols)
	if side <= 0 {
		return freqs
	}
	for i := range freqs {
		freqs[i] = float64(i) / float64(side)
	}
	return freqs
}
