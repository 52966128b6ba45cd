package classify

import (
	"fmt"
	"log"

	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
)

// Outcome reports which tiers ran for one classification. Exactly one
// tier produced the prediction; the flags record the path taken.
type Outcome struct {
	Prediction     model.CategoryPrediction
	MLAttempted    bool
	RuleAttempted  bool
	DefaultApplied bool
}

// Classifier runs the tiered chain: trained model first, rule engine
// when the model is missing or fails, amount heuristics last.
// Classify never returns an error; the worst case is a low-confidence
// Uncategorized prediction.
type Classifier struct {
	store    *Store
	rules    *RuleEngine
	features *feature.Extractor
	logger   *log.Logger
}

// NewClassifier wires the chain. store may hold no model yet; the rule
// tier covers that until one is trained. A nil logger uses the default.
func NewClassifier(store *Store, rules *RuleEngine, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Classifier{
		store:    store,
		rules:    rules,
		features: feature.NewExtractor(),
		logger:   logger,
	}
}

// Classify predicts a category for the transaction
func (c *Classifier) Classify(in Input) Outcome {
	var out Outcome

	if m := c.store.Current(); m != nil {
		out.MLAttempted = true
		pred, err := c.predictML(m, in)
		if err == nil {
			out.Prediction = pred
			return out
		}
		c.logger.Printf("model prediction failed, falling back to rules: %v", err)
	}

	out.RuleAttempted = true
	if pred, ok := c.rules.Predict(in); ok {
		out.Prediction = pred
		return out
	}

	out.DefaultApplied = true
	out.Prediction = DefaultPrediction(in)
	return out
}

func (c *Classifier) predictML(m *Model, in Input) (model.CategoryPrediction, error) {
	if m.Vocabulary == nil || m.Scaler == nil {
		return model.CategoryPrediction{}, fmt.Errorf("model is missing pipeline state")
	}
	raw := c.features.Extract(in.Text, in.Amount, in.Merchant, in.Date)
	raw = append(raw, m.Vocabulary.Weights(in.Text)...)
	return m.Predict(raw)
}
