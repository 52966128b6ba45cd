package feature

import (
	"math"
	"testing"
)

func TestFitScaler_Statistics(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{3, 10},
	}
	s := FitScaler(rows)

	if s.Mean[0] != 2 {
		t.Errorf("expected mean 2, got %v", s.Mean[0])
	}
	if s.Std[0] != 1 {
		t.Errorf("expected std 1, got %v", s.Std[0])
	}
	// constant column gets unit std so Transform is a no-op for it
	if s.Std[1] != 1 {
		t.Errorf("expected unit std for constant column, got %v", s.Std[1])
	}
}

func TestScaler_Transform(t *testing.T) {
	s := FitScaler([][]float64{{1, 5}, {3, 5}})

	out, err := s.Transform([]float64{3, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(out[0]-1) > 1e-9 {
		t.Errorf("expected z-score 1, got %v", out[0])
	}
	if out[1] != 0 {
		t.Errorf("expected 0 for constant column at its mean, got %v", out[1])
	}
}

func TestScaler_WidthMismatch(t *testing.T) {
	s := FitScaler([][]float64{{1, 2, 3}})
	if _, err := s.Transform([]float64{1, 2}); err == nil {
		t.Error("expected error for mismatched width")
	}
}

func TestFitScaler_Empty(t *testing.T) {
	s := FitScaler(nil)
	if s.Width() != 0 {
		t.Errorf("expected zero width, got %d", s.Width())
	}
}
