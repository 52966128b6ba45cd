package feature

import (
	"math"
	"sort"

	"github.com/spendlens/spendlens/internal/textutil"
)

// Vocabulary is the bag-of-n-grams text representation frozen at
// training time: the top-K uni+bigrams by document frequency, each with
// its inverse-document-frequency weight. Term order is part of the
// feature schema contract.
type Vocabulary struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

// BuildVocabulary fits a vocabulary over the training corpus. Terms seen
// in fewer than minDF documents are dropped; the size highest-frequency
// survivors are kept, ties broken alphabetically for determinism.
func BuildVocabulary(docs []string, size, minDF int) *Vocabulary {
	if minDF < 1 {
		minDF = 1
	}

	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range textutil.NGrams(doc) {
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	type termCount struct {
		term string
		df   int
	}
	var counts []termCount
	for term, df := range docFreq {
		if df >= minDF {
			counts = append(counts, termCount{term, df})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].df != counts[j].df {
			return counts[i].df > counts[j].df
		}
		return counts[i].term < counts[j].term
	})
	if size > 0 && len(counts) > size {
		counts = counts[:size]
	}

	// Vocabulary order itself is alphabetical so artifacts diff cleanly
	sort.Slice(counts, func(i, j int) bool { return counts[i].term < counts[j].term })

	v := &Vocabulary{
		Terms: make([]string, len(counts)),
		IDF:   make([]float64, len(counts)),
	}
	n := float64(len(docs))
	for i, tc := range counts {
		v.Terms[i] = tc.term
		v.IDF[i] = math.Log((1+n)/(1+float64(tc.df))) + 1
	}
	return v
}

// Weights computes the TF-IDF weight of each vocabulary term for one
// document, L2-normalized, in frozen term order. Terms the document
// lacks weigh zero; terms outside the vocabulary are dropped.
func (v *Vocabulary) Weights(text string) []float64 {
	counts := make(map[string]int)
	for _, term := range textutil.NGrams(text) {
		counts[term]++
	}

	weights := make([]float64, len(v.Terms))
	var norm float64
	for i, term := range v.Terms {
		if tf := counts[term]; tf > 0 {
			weights[i] = float64(tf) * v.IDF[i]
			norm += weights[i] * weights[i]
		}
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range weights {
			weights[i] /= norm
		}
	}
	return weights
}

// Size returns the vocabulary width
func (v *Vocabulary) Size() int { return len(v.Terms) }
