package train

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Example is one labeled transaction in a training dataset. Amount,
// merchant and date are ground truth, not extractor output, so the
// model learns from clean signals.
type Example struct {
	RawText      string   `json:"raw_text"`
	TrueAmount   *float64 `json:"true_amount,omitempty"`
	KeyMerchant  string   `json:"key_merchant,omitempty"`
	TrueDate     string   `json:"true_date,omitempty"`
	TrueCategory string   `json:"true_category"`
}

// LoadDataset reads a JSON array of labeled examples and drops entries
// without text or a category
func LoadDataset(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var raw []Example
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	examples := make([]Example, 0, len(raw))
	skipped := 0
	for _, ex := range raw {
		if strings.TrimSpace(ex.RawText) == "" || strings.TrimSpace(ex.TrueCategory) == "" {
			skipped++
			continue
		}
		examples = append(examples, ex)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("dataset %s has no usable examples (%d skipped)", path, skipped)
	}
	return examples, nil
}

// categoryCounts tallies examples per category
func categoryCounts(examples []Example) map[string]int {
	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.TrueCategory]++
	}
	return counts
}

func sortedCategories(counts map[string]int) []string {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}
