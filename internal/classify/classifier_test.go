package classify

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/jbrukh/bayesian"

	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
)

// trainedTestModel fits a tiny real classifier over two categories so
// the ML tier has something to predict with
func trainedTestModel(t *testing.T) *Model {
	t.Helper()

	docs := []string{
		"netflix subscription streaming",
		"netflix subscription renewal",
		"walmart grocery store",
		"walmart grocery market",
	}
	labels := []string{"Entertainment", "Groceries"}
	vocab := feature.BuildVocabulary(docs, 0, 1)

	extractor := feature.NewExtractor()
	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		rows[i] = append(extractor.Extract(doc, nil, "", ""), vocab.Weights(doc)...)
	}

	names := append([]string{}, feature.StructuredColumns()...)
	for _, term := range vocab.Terms {
		names = append(names, "tfidf_"+term)
	}
	scaler := feature.FitScaler(rows)

	clf := bayesian.NewClassifierTfIdf(bayesian.Class("Entertainment"), bayesian.Class("Groceries"))
	for i, doc := range docs {
		z, err := scaler.Transform(rows[i])
		if err != nil {
			t.Fatal(err)
		}
		tokens := EvidenceTokens(names, rows[i], z)
		if len(tokens) == 0 {
			tokens = []string{"no_evidence"}
		}
		class := bayesian.Class("Groceries")
		if strings.Contains(doc, "netflix") {
			class = bayesian.Class("Entertainment")
		}
		clf.Learn(tokens, class)
	}
	clf.ConvertTermsFreqToTfIdf()

	return &Model{
		Labels:       labels,
		FeatureNames: names,
		Vocabulary:   vocab,
		Scaler:       scaler,
		Classifier:   clf,
	}
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func TestClassifier_MLTier(t *testing.T) {
	store := NewStore()
	store.Swap(trainedTestModel(t))
	c := NewClassifier(store, NewRuleEngine(0.3), quietLogger())

	out := c.Classify(Input{Text: "netflix subscription streaming"})
	if !out.MLAttempted {
		t.Error("expected the ML tier to run")
	}
	if out.RuleAttempted || out.DefaultApplied {
		t.Error("lower tiers should not run when the model succeeds")
	}
	if out.Prediction.Method != model.MethodML {
		t.Errorf("expected ml method, got %s", out.Prediction.Method)
	}
	if out.Prediction.Category != "Entertainment" {
		t.Errorf("expected Entertainment, got %s", out.Prediction.Category)
	}
	if out.Prediction.Confidence <= 0 || out.Prediction.Confidence > 1 {
		t.Errorf("confidence out of range: %v", out.Prediction.Confidence)
	}
}

func TestClassifier_RuleTierWhenNoModel(t *testing.T) {
	c := NewClassifier(NewStore(), NewRuleEngine(0.3), quietLogger())

	out := c.Classify(Input{
		Text:     "Shell fuel pump 38.00",
		Amount:   amt("38.00"),
		Merchant: "Shell",
	})
	if out.MLAttempted {
		t.Error("no model loaded, ML tier should not run")
	}
	if !out.RuleAttempted {
		t.Error("expected the rule tier to run")
	}
	if out.Prediction.Method != model.MethodRule {
		t.Errorf("expected rule method, got %s", out.Prediction.Method)
	}
}

func TestClassifier_BrokenModelFallsBack(t *testing.T) {
	store := NewStore()
	store.Swap(&Model{Labels: []string{"A", "B"}}) // no pipeline state
	c := NewClassifier(store, NewRuleEngine(0.3), quietLogger())

	out := c.Classify(Input{
		Text:     "Starbucks coffee order",
		Amount:   amt("5.25"),
		Merchant: "Starbucks",
	})
	if !out.MLAttempted || !out.RuleAttempted {
		t.Error("expected fallthrough from ML to rules")
	}
	if out.Prediction.Method != model.MethodRule {
		t.Errorf("expected rule method after fallthrough, got %s", out.Prediction.Method)
	}
}

func TestClassifier_DefaultTierNeverFails(t *testing.T) {
	c := NewClassifier(NewStore(), NewRuleEngine(0.3), quietLogger())

	out := c.Classify(Input{Text: "zzz"})
	if !out.RuleAttempted || !out.DefaultApplied {
		t.Error("expected rule attempt then default")
	}
	if out.Prediction.Category == "" {
		t.Error("classification must always produce a category")
	}
	if out.Prediction.Method != model.MethodFallback {
		t.Errorf("expected fallback method, got %s", out.Prediction.Method)
	}
}

func TestEvidenceTokens(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	raw := []float64{1, 0, 2, 3}
	z := []float64{0.5, 2.0, -1.0, 2.7}

	tokens := EvidenceTokens(names, raw, z)

	counts := map[string]int{}
	for _, tok := range tokens {
		counts[tok]++
	}
	if counts["a"] != 1 {
		t.Errorf("z=0.5 should yield one token, got %d", counts["a"])
	}
	if counts["b"] != 0 {
		t.Errorf("raw zero must contribute nothing, got %d", counts["b"])
	}
	if counts["c"] != 0 {
		t.Errorf("negative z must contribute nothing, got %d", counts["c"])
	}
	if counts["d"] != 3 {
		t.Errorf("z=2.7 should yield capped three tokens, got %d", counts["d"])
	}
}

func TestModel_PredictWidthMismatch(t *testing.T) {
	m := trainedTestModel(t)
	if _, err := m.Predict(make(feature.Vector, 3)); err == nil {
		t.Error("expected error for mismatched feature width")
	}
}
