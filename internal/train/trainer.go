package train

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/jbrukh/bayesian"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/classify"
	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
)

// Report summarizes a training run
type Report struct {
	Examples        int                        `json:"examples"`
	Categories      map[string]int             `json:"categories"`
	HoldoutExamples int                        `json:"holdout_examples"`
	HoldoutAccuracy float64                    `json:"holdout_accuracy"`
	CVFolds         int                        `json:"cv_folds"`
	CVAccuracy      float64                    `json:"cv_accuracy"`
	TopFeatures     map[string][]FeatureWeight `json:"top_features"`
	TrainedAt       time.Time                  `json:"trained_at"`
}

// FeatureWeight names a feature and how strongly it indicates a category
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Trainer fits the category model from labeled examples
type Trainer struct {
	vocabSize int
	minDF     int
	holdout   float64
	seed      int64
	logger    *log.Logger
}

// NewTrainer builds a trainer from config. The seed fixes the holdout
// split so repeated runs on the same dataset are comparable.
func NewTrainer(cfg model.Config, seed int64, logger *log.Logger) *Trainer {
	if logger == nil {
		logger = log.Default()
	}
	return &Trainer{
		vocabSize: cfg.Features.VocabularySize,
		minDF:     cfg.Features.MinDocFreq,
		holdout:   cfg.Classifier.HoldoutFraction,
		seed:      seed,
		logger:    logger,
	}
}

// Train fits the full pipeline: vocabulary, feature rows, scaler, then
// the classifier. Evaluation runs on a stratified holdout and cross
// validation before the final model is refit on every example.
func (t *Trainer) Train(examples []Example) (*classify.Model, *Report, error) {
	counts := categoryCounts(examples)
	if len(counts) < 2 {
		return nil, nil, fmt.Errorf("training needs at least two categories, got %d", len(counts))
	}

	docs := make([]string, len(examples))
	for i, ex := range examples {
		docs[i] = ex.RawText
	}
	vocab := feature.BuildVocabulary(docs, t.vocabSize, t.minDF)

	extractor := feature.NewExtractor()
	rows := make([][]float64, len(examples))
	for i, ex := range examples {
		rows[i] = fullRow(extractor, vocab, ex)
	}

	names := make([]string, 0, feature.StructuredWidth()+vocab.Size())
	names = append(names, feature.StructuredColumns()...)
	for _, term := range vocab.Terms {
		names = append(names, "tfidf_"+term)
	}

	scaler := feature.FitScaler(rows)
	labels := sortedCategories(counts)

	rng := rand.New(rand.NewSource(t.seed))
	trainIdx, holdIdx := stratifiedSplit(examples, t.holdout, rng)

	report := &Report{
		Examples:        len(examples),
		Categories:      counts,
		HoldoutExamples: len(holdIdx),
		TrainedAt:       time.Now().UTC(),
	}

	if len(holdIdx) > 0 {
		clf := fitClassifier(labels, examples, rows, trainIdx, names, scaler)
		eval := &classify.Model{Labels: labels, FeatureNames: names, Vocabulary: vocab, Scaler: scaler, Classifier: clf}
		report.HoldoutAccuracy = accuracy(eval, examples, rows, holdIdx)
		t.logger.Printf("holdout accuracy %.3f on %d examples", report.HoldoutAccuracy, len(holdIdx))
	}

	minCount := len(examples)
	for _, c := range counts {
		if c < minCount {
			minCount = c
		}
	}
	folds := 3
	if minCount < folds {
		folds = minCount
	}
	if folds >= 2 {
		report.CVFolds = folds
		report.CVAccuracy = t.crossValidate(labels, examples, rows, names, vocab, scaler, folds, rng)
		t.logger.Printf("%d-fold cross validation accuracy %.3f", folds, report.CVAccuracy)
	}

	all := make([]int, len(examples))
	for i := range all {
		all[i] = i
	}
	final := fitClassifier(labels, examples, rows, all, names, scaler)
	m := &classify.Model{Labels: labels, FeatureNames: names, Vocabulary: vocab, Scaler: scaler, Classifier: final}

	report.TopFeatures = featureImportances(labels, examples, rows, names, scaler)
	return m, report, nil
}

func fullRow(extractor *feature.Extractor, vocab *feature.Vocabulary, ex Example) []float64 {
	var amt *decimal.Decimal
	if ex.TrueAmount != nil {
		d := decimal.NewFromFloat(*ex.TrueAmount)
		amt = &d
	}
	row := extractor.Extract(ex.RawText, amt, ex.KeyMerchant, ex.TrueDate)
	return append(row, vocab.Weights(ex.RawText)...)
}

// fitClassifier trains a TF-IDF naive Bayes on the selected rows
func fitClassifier(labels []string, examples []Example, rows [][]float64, idx []int, names []string, scaler *feature.Scaler) *bayesian.Classifier {
	classes := make([]bayesian.Class, len(labels))
	for i, l := range labels {
		classes[i] = bayesian.Class(l)
	}
	clf := bayesian.NewClassifierTfIdf(classes...)

	for _, i := range idx {
		standardized, err := scaler.Transform(rows[i])
		if err != nil {
			continue
		}
		tokens := classify.EvidenceTokens(names, rows[i], standardized)
		if len(tokens) == 0 {
			tokens = []string{"no_evidence"}
		}
		clf.Learn(tokens, bayesian.Class(examples[i].TrueCategory))
	}
	clf.ConvertTermsFreqToTfIdf()
	return clf
}

func accuracy(m *classify.Model, examples []Example, rows [][]float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	correct := 0
	for _, i := range idx {
		pred, err := m.Predict(rows[i])
		if err == nil && pred.Category == examples[i].TrueCategory {
			correct++
		}
	}
	return float64(correct) / float64(len(idx))
}

func (t *Trainer) crossValidate(labels []string, examples []Example, rows [][]float64, names []string, vocab *feature.Vocabulary, scaler *feature.Scaler, folds int, rng *rand.Rand) float64 {
	perm := rng.Perm(len(examples))
	valid := 0
	var total float64
	for f := 0; f < folds; f++ {
		var trainIdx, testIdx []int
		for j, i := range perm {
			if j%folds == f {
				testIdx = append(testIdx, i)
			} else {
				trainIdx = append(trainIdx, i)
			}
		}
		if len(testIdx) == 0 || !coversAll(labels, examples, trainIdx) {
			continue
		}
		clf := fitClassifier(labels, examples, rows, trainIdx, names, scaler)
		eval := &classify.Model{Labels: labels, FeatureNames: names, Vocabulary: vocab, Scaler: scaler, Classifier: clf}
		total += accuracy(eval, examples, rows, testIdx)
		valid++
	}
	if valid == 0 {
		return 0
	}
	return total / float64(valid)
}

func coversAll(labels []string, examples []Example, idx []int) bool {
	seen := make(map[string]bool, len(labels))
	for _, i := range idx {
		seen[examples[i].TrueCategory] = true
	}
	return len(seen) == len(labels)
}

// stratifiedSplit shuffles within each category and carves off the
// holdout fraction. Categories with a single example always train.
func stratifiedSplit(examples []Example, fraction float64, rng *rand.Rand) (trainIdx, holdIdx []int) {
	byCategory := make(map[string][]int)
	for i, ex := range examples {
		byCategory[ex.TrueCategory] = append(byCategory[ex.TrueCategory], i)
	}

	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	for _, c := range cats {
		idx := byCategory[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		n := int(math.Round(fraction * float64(len(idx))))
		if n >= len(idx) {
			n = len(idx) - 1
		}
		holdIdx = append(holdIdx, idx[:n]...)
		trainIdx = append(trainIdx, idx[n:]...)
	}
	sort.Ints(trainIdx)
	sort.Ints(holdIdx)
	return trainIdx, holdIdx
}

// featureImportances ranks features by how far a category's mean
// standardized value sits above the overall mean
func featureImportances(labels []string, examples []Example, rows [][]float64, names []string, scaler *feature.Scaler) map[string][]FeatureWeight {
	standardized := make([][]float64, len(rows))
	for i, row := range rows {
		z, err := scaler.Transform(row)
		if err != nil {
			return nil
		}
		standardized[i] = z
	}

	width := len(names)
	global := make([]float64, width)
	for _, z := range standardized {
		for j := 0; j < width && j < len(z); j++ {
			global[j] += z[j]
		}
	}
	for j := range global {
		global[j] /= float64(len(standardized))
	}

	out := make(map[string][]FeatureWeight, len(labels))
	for _, label := range labels {
		sums := make([]float64, width)
		n := 0
		for i, ex := range examples {
			if ex.TrueCategory != label {
				continue
			}
			for j := 0; j < width && j < len(standardized[i]); j++ {
				sums[j] += standardized[i][j]
			}
			n++
		}
		if n == 0 {
			continue
		}

		weights := make([]FeatureWeight, 0, width)
		for j := 0; j < width; j++ {
			delta := sums[j]/float64(n) - global[j]
			if delta > 0 {
				weights = append(weights, FeatureWeight{Feature: names[j], Weight: delta})
			}
		}
		sort.Slice(weights, func(a, b int) bool {
			if weights[a].Weight != weights[b].Weight {
				return weights[a].Weight > weights[b].Weight
			}
			return weights[a].Feature < weights[b].Feature
		})
		if len(weights) > 10 {
			weights = weights[:10]
		}
		out[label] = weights
	}
	return out
}
