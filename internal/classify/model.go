package classify

import (
	"fmt"
	"math"

	"github.com/jbrukh/bayesian"

	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
)

// Model wraps a trained naive Bayes classifier together with the
// feature pipeline state it was fitted against. Immutable after load.
type Model struct {
	Labels       []string
	FeatureNames []string
	Vocabulary   *feature.Vocabulary
	Scaler       *feature.Scaler
	Classifier   *bayesian.Classifier
}

// EvidenceTokens converts a standardized feature vector into the token
// multiset the classifier consumes. A column contributes when its raw
// value is nonzero and its z-score is positive; stronger deviations
// repeat the token, capped at three occurrences.
func EvidenceTokens(names []string, raw, standardized feature.Vector) []string {
	tokens := make([]string, 0, len(names))
	for i, name := range names {
		if i >= len(raw) || i >= len(standardized) {
			break
		}
		if raw[i] == 0 || standardized[i] <= 0 {
			continue
		}
		count := 1 + int(standardized[i])
		if count > 3 {
			count = 3
		}
		for j := 0; j < count; j++ {
			tokens = append(tokens, name)
		}
	}
	return tokens
}

// Predict scores the raw feature vector against every known category.
// It fails rather than guess when the vector width does not match the
// fitted pipeline or no column produces evidence.
func (m *Model) Predict(raw feature.Vector) (model.CategoryPrediction, error) {
	if m.Classifier == nil {
		return model.CategoryPrediction{}, fmt.Errorf("model has no classifier")
	}
	if len(raw) != len(m.FeatureNames) {
		return model.CategoryPrediction{}, fmt.Errorf("feature width %d does not match model width %d", len(raw), len(m.FeatureNames))
	}

	standardized, err := m.Scaler.Transform(raw)
	if err != nil {
		return model.CategoryPrediction{}, err
	}

	tokens := EvidenceTokens(m.FeatureNames, raw, standardized)
	if len(tokens) == 0 {
		return model.CategoryPrediction{}, fmt.Errorf("no evidence tokens for input")
	}

	logScores, _, _ := m.Classifier.LogScores(tokens)
	probs := softmax(logScores)

	scores := make(model.CategoryScores, len(m.Labels))
	for i, label := range m.Labels {
		scores[i] = model.CategoryScore{Category: label, Score: probs[i]}
	}
	best, _ := scores.Top()

	return model.CategoryPrediction{
		Category:        best.Category,
		Confidence:      best.Score,
		Method:          model.MethodML,
		TopAlternatives: scores.TopN(3),
	}, nil
}

// softmax converts log scores into a probability distribution,
// subtracting the max first for numeric stability
func softmax(logScores []float64) []float64 {
	if len(logScores) == 0 {
		return nil
	}
	maxLog := logScores[0]
	for _, s := range logScores[1:] {
		if s > maxLog {
			maxLog = s
		}
	}
	probs := make([]float64, len(logScores))
	var sum float64
	for i, s := range logScores {
		probs[i] = math.Exp(s - maxLog)
		sum += probs[i]
	}
	if sum == 0 {
		uniform := 1.0 / float64(len(logScores))
		for i := range probs {
			probs[i] = uniform
		}
		return probs
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
