package feature

import "sort"

// The structured feature schema is enumerated here once and shared by the
// training pipeline and the inference path, so both produce columns in
// the same order with no runtime reconciliation. Changing any list below
// changes the schema and invalidates previously trained artifacts.

// AmountBuckets partition amounts for one-hot encoding
var AmountBuckets = []struct {
	Name string
	Min  float64
	Max  float64 // exclusive; <0 means unbounded
}{
	{"micro", 0, 5},
	{"small", 5, 15},
	{"medium_small", 15, 50},
	{"medium", 50, 150},
	{"large", 150, 500},
	{"xlarge", 500, -1},
}

// MerchantCategories map category names to merchant-name fragments
var MerchantCategories = map[string][]string{
	"coffee_chain":      {"starbucks", "dunkin", "coffee", "cafe", "espresso"},
	"fast_food":         {"mcdonald", "burger king", "kfc", "taco bell", "subway", "chipotle"},
	"grocery_chain":     {"walmart", "target", "kroger", "safeway", "whole foods", "costco", "alfamart"},
	"gas_station":       {"shell", "chevron", "exxon", "bp", "mobil", "texaco"},
	"pharmacy":          {"cvs", "walgreens", "pharmacy", "rite aid"},
	"streaming_service": {"netflix", "spotify", "hulu", "disney", "amazon prime", "apple music"},
	"ride_sharing":      {"uber", "lyft", "taxi", "rideshare"},
	"hotel_chain":       {"marriott", "hilton", "hyatt", "holiday inn", "airbnb"},
	"airline":           {"delta", "american", "united", "southwest", "jetblue"},
	"telecom":           {"verizon", "at&t", "t-mobile", "sprint", "comcast"},
}

// TimePatterns bucket the hour of an HH:MM token found in the text.
// late_night wraps past midnight.
var TimePatterns = []struct {
	Name  string
	Start int
	End   int
}{
	{"morning_rush", 6, 10},
	{"lunch_time", 11, 14},
	{"dinner_time", 17, 21},
	{"late_night", 22, 5},
}

// CategoryKeywords drive per-category keyword-hit counts
var CategoryKeywords = map[string][]string{
	"dining":         {"restaurant", "food", "cafe", "delivery", "takeout", "menu", "order", "eat"},
	"groceries":      {"grocery", "market", "store", "supermarket", "produce", "organic"},
	"transportation": {"ride", "fuel", "gas", "parking", "toll", "uber", "lyft", "taxi"},
	"entertainment":  {"subscription", "streaming", "music", "video", "game", "premium"},
	"utilities":      {"bill", "monthly", "electric", "internet", "phone", "utility", "wireless"},
	"healthcare":     {"pharmacy", "prescription", "medical", "doctor", "health", "rx"},
	"travel":         {"hotel", "flight", "booking", "reservation", "airline", "airport"},
	"shopping":       {"purchase", "order", "shopping", "item", "product", "store", "buy"},
}

// PaymentMethods and TransactionTypes become indicator flags
var PaymentMethods = []string{"card", "cash", "upi", "credit", "debit", "autopay"}

var TransactionTypes = []string{"purchase", "payment", "subscription", "renewal", "charge", "bill"}

// CurrencyMarkers map flag names to the literal markers searched for
var CurrencyMarkers = map[string][]string{
	"usd":    {"USD"},
	"inr":    {"INR"},
	"eur":    {"EUR"},
	"gbp":    {"GBP"},
	"dollar": {"$"},
	"rupee":  {"₹"},
	"euro":   {"€"},
	"pound":  {"£"},
}

// SubscriptionPrices are common recurring price points
var SubscriptionPrices = []float64{9.99, 14.99, 15.99, 19.99, 29.99, 39.99, 49.99, 79.99, 99.99}

// structuredColumns holds the frozen column order: every structured
// feature name, sorted. Computed once at package init.
var structuredColumns []string

var structuredIndex map[string]int

func init() {
	var names []string

	for _, b := range AmountBuckets {
		names = append(names, "amount_bucket_"+b.Name)
	}
	names = append(names,
		"is_round_amount", "is_subscription_price",
		"amount_log", "amount_sqrt",
		"is_micro_transaction", "is_large_transaction",
	)

	for cat := range MerchantCategories {
		names = append(names, "merchant_category_"+cat)
	}
	names = append(names, "merchant_name_length", "merchant_has_numbers", "merchant_word_count")

	for _, tp := range TimePatterns {
		names = append(names, "time_pattern_"+tp.Name)
	}
	names = append(names, "day_of_week", "is_weekend", "month", "is_month_start", "is_month_end")

	for cat := range CategoryKeywords {
		names = append(names, "text_keywords_"+cat, "has_"+cat+"_keywords")
	}
	for _, m := range PaymentMethods {
		names = append(names, "payment_method_"+m)
	}
	for _, t := range TransactionTypes {
		names = append(names, "transaction_type_"+t)
	}
	names = append(names,
		"has_recurring_pattern", "has_reference_number", "has_balance_info",
		"has_location_info", "has_promotion",
		"text_length", "word_count", "sentence_count",
	)
	for c := range CurrencyMarkers {
		names = append(names, "currency_"+c)
	}
	names = append(names, "numeric_value_count")

	sort.Strings(names)
	structuredColumns = names

	structuredIndex = make(map[string]int, len(names))
	for i, n := range names {
		structuredIndex[n] = i
	}
}

// StructuredColumns returns the frozen, name-sorted structured column
// order. Callers must not mutate the returned slice.
func StructuredColumns() []string { return structuredColumns }

// StructuredWidth is the structured block width
func StructuredWidth() int { return len(structuredColumns) }

// ColumnIndex resolves a structured column name to its position
func ColumnIndex(name string) (int, bool) {
	i, ok := structuredIndex[name]
	return i, ok
}
