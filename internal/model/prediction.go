package model

import "sort"

// PredictionMethod records which tier of the classifier produced a prediction
type PredictionMethod string

const (
	MethodML       PredictionMethod = "ml"       // statistical model
	MethodRule     PredictionMethod = "rule"     // rule engine
	MethodFallback PredictionMethod = "fallback" // default heuristic
)

// CategoryPrediction is the outcome of category classification. The
// classifier boundary never errors: callers always receive a valid triple.
type CategoryPrediction struct {
	Category        string           `json:"category"`
	Confidence      float64          `json:"confidence"` // [0,1]
	Method          PredictionMethod `json:"method"`
	TopAlternatives []CategoryScore  `json:"top_alternatives,omitempty"`
}

// CategoryScore pairs a category with its score or probability
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// CategoryScores supports ranking candidate categories
type CategoryScores []CategoryScore

func (s CategoryScores) Len() int      { return len(s) }
func (s CategoryScores) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Less orders by score descending, then by name for determinism
func (s CategoryScores) Less(i, j int) bool {
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}
	return s[i].Category < s[j].Category
}

// Sort sorts the scores highest first
func (s CategoryScores) Sort() { sort.Sort(s) }

// Top returns the highest-scoring entry, or false when empty
func (s CategoryScores) Top() (CategoryScore, bool) {
	if len(s) == 0 {
		return CategoryScore{}, false
	}
	s.Sort()
	return s[0], true
}

// TopN returns the n highest-scoring entries
func (s CategoryScores) TopN(n int) CategoryScores {
	s.Sort()
	if n > len(s) {
		n = len(s)
	}
	if n <= 0 {
		return CategoryScores{}
	}
	out := make(CategoryScores, n)
	copy(out, s[:n])
	return out
}
