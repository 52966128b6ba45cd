package classify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
)

// Input is everything the classifier may consult for one transaction
type Input struct {
	Text     string
	Amount   *decimal.Decimal
	Merchant string
	Date     string // ISO-8601 or empty
}

// Signal weights for the rule engine. Merchant identity is the strongest
// evidence, then keywords, then amount and timing patterns.
const (
	merchantWeight     = 0.4
	keywordWeight      = 0.1
	keywordWeightCap   = 0.3
	amountRangeWeight  = 0.2
	subscriptionWeight = 0.15
	roundNumberWeight  = 0.1
	copayWeight        = 0.15
	timeMatchWeight    = 0.1
)

var copayAmounts = []float64{10, 15, 20, 25, 30, 35, 40, 45, 50}

// categoryRule scores one spending category from weighted signals
type categoryRule struct {
	name         string
	merchants    []string
	keywords     []string
	amountRanges [][2]float64
	subscription bool // known recurring price points boost the score
	roundNumbers bool
	copay        bool
	timePatterns []string
}

// categoryRules is the fixed rule set, independent of the trained model
var categoryRules = []categoryRule{
	{
		name:         "Entertainment",
		merchants:    []string{"netflix", "spotify", "disney", "amazon prime", "hulu", "youtube", "steam", "apple music"},
		keywords:     []string{"subscription", "streaming", "monthly", "premium", "game", "music", "video"},
		amountRanges: [][2]float64{{5, 50}},
		subscription: true,
	},
	{
		name:         "Groceries",
		merchants:    []string{"walmart", "costco", "kroger", "safeway", "whole foods", "trader joe", "alfamart", "target"},
		keywords:     []string{"grocery", "market", "store", "supercenter", "organic", "produce"},
		amountRanges: [][2]float64{{20, 300}},
	},
	{
		name:         "Dining",
		merchants:    []string{"mcdonald", "starbucks", "chipotle", "subway", "kfc", "domino", "pizza", "dunkin", "zomato"},
		keywords:     []string{"restaurant", "cafe", "food", "delivery", "drive", "order", "menu", "takeout"},
		amountRanges: [][2]float64{{3, 100}},
		timePatterns: []string{"morning_rush", "lunch_time", "dinner_time"},
	},
	{
		name:         "Transportation",
		merchants:    []string{"uber", "lyft", "shell", "chevron", "bp", "exxon", "tesla", "gas station"},
		keywords:     []string{"ride", "fuel", "gas", "parking", "toll", "metro", "taxi", "pump", "station"},
		amountRanges: [][2]float64{{5, 150}},
		timePatterns: []string{"morning_rush", "dinner_time"},
	},
	{
		name:         "Utilities",
		merchants:    []string{"verizon", "at&t", "comcast", "electric", "gas company", "water", "internet"},
		keywords:     []string{"bill", "monthly", "due", "utility", "electric", "internet", "phone", "wireless"},
		amountRanges: [][2]float64{{25, 300}},
		roundNumbers: true,
	},
	{
		name:         "Shopping",
		merchants:    []string{"amazon", "ebay", "best buy", "home depot", "target", "rei", "clothing"},
		keywords:     []string{"purchase", "order", "shipping", "item", "product", "store"},
		amountRanges: [][2]float64{{10, 1000}},
	},
	{
		name:         "Healthcare",
		merchants:    []string{"cvs", "walgreens", "pharmacy", "hospital", "clinic", "gym", "fitness"},
		keywords:     []string{"prescription", "pharmacy", "medical", "doctor", "gym", "membership", "health"},
		amountRanges: [][2]float64{{10, 200}},
		copay:        true,
	},
	{
		name:         "Travel",
		merchants:    []string{"delta", "united", "marriott", "hilton", "airbnb", "booking", "expedia"},
		keywords:     []string{"flight", "hotel", "booking", "reservation", "travel", "airline", "airport"},
		amountRanges: [][2]float64{{50, 2000}},
	},
	{
		name:         "Subscriptions",
		merchants:    []string{"microsoft", "adobe", "dropbox", "office", "cloud"},
		keywords:     []string{"annual", "software", "license", "cloud", "storage", "office", "pro"},
		amountRanges: [][2]float64{{5, 200}},
		subscription: true,
	},
}

var clockHour = regexp.MustCompile(`(\d{1,2}):[0-5]\d`)

// RuleEngine is the deterministic category scorer used when the trained
// model is unavailable or fails. Stateless and safe for concurrent use.
type RuleEngine struct {
	floor float64
}

// NewRuleEngine creates a rule engine with the given acceptance floor
func NewRuleEngine(floor float64) *RuleEngine {
	return &RuleEngine{floor: floor}
}

// Predict scores every category and returns the winner when its score
// clears the floor. The second return is false below the floor.
func (e *RuleEngine) Predict(in Input) (model.CategoryPrediction, bool) {
	textLower := strings.ToLower(in.Text)
	merchantLower := strings.ToLower(in.Merchant)
	timeCtx := timeContext(textLower)

	var amt float64
	if in.Amount != nil {
		amt, _ = in.Amount.Float64()
	}

	scores := make(model.CategoryScores, 0, len(categoryRules))
	for _, rule := range categoryRules {
		scores = append(scores, model.CategoryScore{
			Category: rule.name,
			Score:    rule.score(textLower, merchantLower, amt, in.Amount != nil, timeCtx),
		})
	}

	best, _ := scores.Top()
	if best.Score < e.floor {
		return model.CategoryPrediction{}, false
	}

	confidence := best.Score
	if confidence > 0.99 {
		confidence = 0.99
	}
	return model.CategoryPrediction{
		Category:        best.Category,
		Confidence:      confidence,
		Method:          model.MethodRule,
		TopAlternatives: scores.TopN(3),
	}, true
}

func (r categoryRule) score(textLower, merchantLower string, amt float64, hasAmount bool, timeCtx string) float64 {
	score := 0.0

	if merchantLower != "" {
		for _, m := range r.merchants {
			if strings.Contains(merchantLower, m) {
				score += merchantWeight
				break
			}
		}
	}

	hits := 0
	for _, kw := range r.keywords {
		if strings.Contains(textLower, kw) {
			hits++
		}
	}
	if hits > 0 {
		score += min(keywordWeightCap, float64(hits)*keywordWeight)
	}

	if hasAmount {
		for _, rng := range r.amountRanges {
			if amt >= rng[0] && amt <= rng[1] {
				score += amountRangeWeight
			}
		}
		if r.subscription && feature.IsSubscriptionPrice(amt) {
			score += subscriptionWeight
		}
		if r.roundNumbers && amt == float64(int64(amt)) {
			score += roundNumberWeight
		}
		if r.copay {
			for _, c := range copayAmounts {
				if amt == c {
					score += copayWeight
					break
				}
			}
		}
	}

	if timeCtx != "" {
		for _, tp := range r.timePatterns {
			if tp == timeCtx {
				score += timeMatchWeight
				break
			}
		}
	}

	return score
}

// timeContext maps an HH:MM token or meal wording to a time pattern name
func timeContext(textLower string) string {
	if m := clockHour.FindStringSubmatch(textLower); m != nil {
		hour := 0
		for _, r := range m[1] {
			hour = hour*10 + int(r-'0')
		}
		for _, tp := range feature.TimePatterns {
			if tp.Start <= tp.End {
				if hour >= tp.Start && hour <= tp.End {
					return tp.Name
				}
			} else if hour >= tp.Start || hour <= tp.End {
				return tp.Name
			}
		}
	}

	switch {
	case strings.Contains(textLower, "breakfast") || strings.Contains(textLower, "morning"):
		return "morning_rush"
	case strings.Contains(textLower, "lunch") || strings.Contains(textLower, "noon"):
		return "lunch_time"
	case strings.Contains(textLower, "dinner") || strings.Contains(textLower, "evening"):
		return "dinner_time"
	}
	return ""
}

// DefaultPrediction is the last-resort heuristic: a coarse amount and
// keyword guess at low confidence, or Uncategorized at near zero.
func DefaultPrediction(in Input) model.CategoryPrediction {
	textLower := strings.ToLower(in.Text)

	if in.Amount != nil {
		amt, _ := in.Amount.Float64()
		switch {
		case amt < 10:
			return fallback("Dining", 0.4) // small amounts are usually food or coffee
		case amt <= 50:
			return fallback("Shopping", 0.3)
		case amt <= 200:
			if containsAny(textLower, []string{"bill", "monthly", "due"}) {
				return fallback("Utilities", 0.4)
			}
			return fallback("Shopping", 0.3)
		default:
			return fallback("Shopping", 0.2)
		}
	}

	switch {
	case containsAny(textLower, []string{"food", "restaurant", "cafe", "delivery"}):
		return fallback("Dining", 0.5)
	case containsAny(textLower, []string{"gas", "fuel", "ride", "taxi"}):
		return fallback("Transportation", 0.5)
	case containsAny(textLower, []string{"store", "purchase", "buy", "order"}):
		return fallback("Shopping", 0.4)
	}

	return fallback(model.CategoryUncategorized, 0.1)
}

func fallback(category string, confidence float64) model.CategoryPrediction {
	return model.CategoryPrediction{
		Category:   category,
		Confidence: confidence,
		Method:     model.MethodFallback,
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
