package feature

import (
	"fmt"
	"math"
)

// Scaler standardizes feature columns with statistics frozen at training
// time. The same statistics must be applied at inference; mixing versions
// silently corrupts predictions, so Transform checks the width.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column mean and standard deviation. Constant
// columns get a unit deviation so standardization is a no-op for them.
func FitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}
	width := len(rows[0])
	s := &Scaler{
		Mean: make([]float64, width),
		Std:  make([]float64, width),
	}

	for _, row := range rows {
		for i, val := range row {
			s.Mean[i] += val
		}
	}
	n := float64(len(rows))
	for i := range s.Mean {
		s.Mean[i] /= n
	}

	for _, row := range rows {
		for i, val := range row {
			d := val - s.Mean[i]
			s.Std[i] += d * d
		}
	}
	for i := range s.Std {
		s.Std[i] = math.Sqrt(s.Std[i] / n)
		if s.Std[i] == 0 {
			s.Std[i] = 1
		}
	}
	return s
}

// Transform standardizes one row. The row width must match the fitted
// width exactly; a mismatch means training and inference schemas drifted.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("feature width %d does not match scaler width %d", len(row), len(s.Mean))
	}
	out := make([]float64, len(row))
	for i, val := range row {
		out[i] = (val - s.Mean[i]) / s.Std[i]
	}
	return out, nil
}

// Width returns the fitted column count
func (s *Scaler) Width() int { return len(s.Mean) }
