package feature

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/textutil"
)

// Vector is a structured feature row aligned to StructuredColumns().
// Width and order are identical whether or not the optional inputs were
// available; absent inputs degrade to zeros.
type Vector []float64

// Get returns the value of a named column
func (v Vector) Get(name string) float64 {
	if i, ok := ColumnIndex(name); ok {
		return v[i]
	}
	return 0
}

var (
	clockToken      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	digitAnywhere   = regexp.MustCompile(`\d`)
	numericToken    = regexp.MustCompile(`\b\d+\b`)
	referenceNumber = regexp.MustCompile(`(?:ref|id|confirmation|order).*\d{4,}`)
	locationMarker  = regexp.MustCompile(`store|location|#\d+|downtown|highway`)
)

var recurringKeywords = []string{"monthly", "annual", "subscription", "renewal", "auto", "recurring"}
var balanceMentions = []string{"balance", "bal", "available"}
var promotionKeywords = []string{"discount", "sale", "promo", "offer"}

// Extractor converts (text, amount, merchant, date) into the fixed
// structured feature vector. Stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a feature extractor
func NewExtractor() *Extractor { return &Extractor{} }

// Extract builds the structured feature vector. amount may be nil,
// merchant and dateStr may be empty; the vector keeps its full width.
func (e *Extractor) Extract(text string, amount *decimal.Decimal, merchant, dateStr string) Vector {
	v := make(Vector, StructuredWidth())
	lower := strings.ToLower(text)

	if amount != nil {
		amountFeatures(v, *amount)
	}
	if merchant != "" {
		merchantFeatures(v, strings.ToLower(merchant))
	}
	timeFeatures(v, lower, dateStr)
	textFeatures(v, lower)
	patternFeatures(v, lower)
	contextFeatures(v, text)

	return v
}

func set(v Vector, name string, value float64) {
	if i, ok := ColumnIndex(name); ok {
		v[i] = value
	}
}

func setFlag(v Vector, name string, on bool) {
	if on {
		set(v, name, 1)
	}
}

func amountFeatures(v Vector, amount decimal.Decimal) {
	amt, _ := amount.Float64()

	for _, b := range AmountBuckets {
		if amt >= b.Min && (b.Max < 0 || amt < b.Max) {
			set(v, "amount_bucket_"+b.Name, 1)
			break
		}
	}

	setFlag(v, "is_round_amount", amount.IsInteger())
	setFlag(v, "is_subscription_price", IsSubscriptionPrice(amt))
	set(v, "amount_log", math.Log(amt+1))
	set(v, "amount_sqrt", math.Sqrt(amt))
	setFlag(v, "is_micro_transaction", amt < 5)
	setFlag(v, "is_large_transaction", amt > 200)
}

// IsSubscriptionPrice reports whether an amount matches a common
// recurring price point within a cent.
func IsSubscriptionPrice(amt float64) bool {
	for _, p := range SubscriptionPrices {
		if math.Abs(amt-p) < 0.01 {
			return true
		}
	}
	return false
}

func merchantFeatures(v Vector, merchantLower string) {
	for cat, fragments := range MerchantCategories {
		for _, frag := range fragments {
			if strings.Contains(merchantLower, frag) {
				set(v, "merchant_category_"+cat, 1)
				break
			}
		}
	}
	set(v, "merchant_name_length", float64(len(merchantLower)))
	setFlag(v, "merchant_has_numbers", digitAnywhere.MatchString(merchantLower))
	set(v, "merchant_word_count", float64(len(strings.Fields(merchantLower))))
}

func timeFeatures(v Vector, lower, dateStr string) {
	if m := clockToken.FindStringSubmatch(lower); m != nil {
		hour := int(parseDigits(m[1]))
		for _, tp := range TimePatterns {
			inRange := false
			if tp.Start <= tp.End {
				inRange = hour >= tp.Start && hour <= tp.End
			} else {
				inRange = hour >= tp.Start || hour <= tp.End
			}
			if inRange {
				set(v, "time_pattern_"+tp.Name, 1)
				break
			}
		}
	}

	if dateStr == "" {
		return
	}
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return
	}
	weekday := (int(d.Weekday()) + 6) % 7 // Monday = 0
	set(v, "day_of_week", float64(weekday))
	setFlag(v, "is_weekend", weekday >= 5)
	set(v, "month", float64(d.Month()))
	setFlag(v, "is_month_start", d.Day() <= 5)
	setFlag(v, "is_month_end", d.Day() >= 25)
}

func textFeatures(v Vector, lower string) {
	for cat, keywords := range CategoryKeywords {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		set(v, "text_keywords_"+cat, float64(count))
		setFlag(v, "has_"+cat+"_keywords", count > 0)
	}

	for _, method := range PaymentMethods {
		setFlag(v, "payment_method_"+method, strings.Contains(lower, method))
	}
	for _, txType := range TransactionTypes {
		setFlag(v, "transaction_type_"+txType, strings.Contains(lower, txType))
	}
}

func patternFeatures(v Vector, lower string) {
	setFlag(v, "has_recurring_pattern", containsAny(lower, recurringKeywords))
	setFlag(v, "has_reference_number", referenceNumber.MatchString(lower))
	setFlag(v, "has_balance_info", containsAny(lower, balanceMentions))
	setFlag(v, "has_location_info", locationMarker.MatchString(lower))
	setFlag(v, "has_promotion", containsAny(lower, promotionKeywords))
}

func contextFeatures(v Vector, raw string) {
	set(v, "text_length", float64(len(raw)))
	set(v, "word_count", float64(len(strings.Fields(raw))))
	set(v, "sentence_count", float64(textutil.CountSentences(raw)))

	for flag, markers := range CurrencyMarkers {
		for _, marker := range markers {
			if strings.Contains(raw, marker) {
				set(v, "currency_"+flag, 1)
				break
			}
		}
	}

	set(v, "numeric_value_count", float64(len(numericToken.FindAllString(raw, -1))))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func parseDigits(s string) float64 {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return float64(n)
}
