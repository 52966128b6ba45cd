package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/model"
)

// transactionKeywords anchor the primary extraction phase. Order matters:
// earlier keywords get lower priority scores and win ties.
var transactionKeywords = []string{
	"purchase",
	"spent",
	"charged",
	"debited",
	"payment",
	"subscription",
	"billed",
	"transaction",
	"withdrawal",
	"withdrew",
	"transfer",
	"paid",
	"cost",
	"amount due",
	"due",
	"total",
	"amount",
	"recharge",
}

// balanceKeywords mark contexts that hold an account balance rather than
// the transaction amount. Fallback-phase matches near them are discarded.
var balanceKeywords = []string{
	"avl bal",
	"available balance",
	"balance",
	"bal",
	"remaining",
	"limit",
	"credit limit",
	"ending in",
	"rewards",
	"points",
}

// numberPat matches comma-grouped or plain numbers with optional cents
const numberPat = `(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?`

var (
	currencyCodeAmount   = regexp.MustCompile(`(?i)\b(?:INR|USD|EUR|GBP|CAD|AUD|SGD|JPY)\s+` + numberPat + `\b`)
	currencySymbolAmount = regexp.MustCompile(`[₹$€£¥¢]\s*` + numberPat)
	currencyCodeStrip    = regexp.MustCompile(`(?i)\b(?:INR|USD|EUR|GBP|CAD|AUD|SGD|JPY)\b`)
	numberOnly           = regexp.MustCompile(numberPat)
)

var currencySymbols = []string{"₹", "$", "€", "£", "¥", "¢"}

// candidate is a transient (value, score, position) tuple considered while
// scanning. Lower score wins; ties break on earliest position.
type amountCandidate struct {
	value   decimal.Decimal
	score   int
	pos     int
	keyword string
}

// AmountExtractor finds the single best monetary amount in noisy
// transaction text, ignoring balances, reference IDs and phone numbers.
// It is stateless and safe for concurrent use.
type AmountExtractor struct {
	window        int
	balanceWindow int
	minPlausible  decimal.Decimal
	maxPlausible  decimal.Decimal
	keywordAmount []*regexp.Regexp // per-keyword bare-number patterns, index-aligned
}

// NewAmountExtractor creates an amount extractor with the given tuning
func NewAmountExtractor(cfg model.ExtractConfig) *AmountExtractor {
	perKeyword := make([]*regexp.Regexp, len(transactionKeywords))
	for i, kw := range transactionKeywords {
		// "payment of 1,500" and "Total: 123.45" shapes
		perKeyword[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw) + `(?:\s+(?:of\s+)?|:\s*)` + numberPat)
	}
	return &AmountExtractor{
		window:        cfg.AmountWindow,
		balanceWindow: cfg.BalanceWindow,
		minPlausible:  decimal.NewFromFloat(cfg.MinPlausible),
		maxPlausible:  decimal.NewFromFloat(cfg.MaxPlausible),
		keywordAmount: perKeyword,
	}
}

// Extract returns the most likely transaction amount, or false when the
// text holds none. Malformed input is never an error.
func (e *AmountExtractor) Extract(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, false
	}

	candidates := e.keywordAnchored(text)
	if len(candidates) == 0 {
		candidates = e.standalone(text)
	}
	if len(candidates) == 0 {
		return decimal.Zero, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})
	return candidates[0].value, true
}

// keywordAnchored scans a window around each transaction keyword for
// currency-marked or keyword-adjacent numbers. Score = rank*100 + distance
// from the keyword, so an earlier keyword always beats a later one.
func (e *AmountExtractor) keywordAnchored(text string) []amountCandidate {
	var out []amountCandidate
	lower := strings.ToLower(text)

	for rank, keyword := range transactionKeywords {
		for _, kwPos := range findAll(lower, keyword) {
			winStart := max(0, kwPos-e.window)
			winEnd := min(len(text), kwPos+len(keyword)+e.window)
			window := text[winStart:winEnd]
			kwOffset := kwPos - winStart

			patterns := []*regexp.Regexp{currencyCodeAmount, currencySymbolAmount, e.keywordAmount[rank]}
			for _, pat := range patterns {
				for _, loc := range pat.FindAllStringIndex(window, -1) {
					value, ok := parseAmount(window[loc[0]:loc[1]])
					if !ok || !value.IsPositive() {
						continue
					}
					distance := abs(loc[0] - kwOffset)
					out = append(out, amountCandidate{
						value:   value,
						score:   rank*100 + distance,
						pos:     winStart + loc[0],
						keyword: keyword,
					})
				}
			}
		}
	}
	return out
}

// standalone is the fallback phase: currency-marked numbers anywhere in
// the text, excluding balance contexts and implausible values.
func (e *AmountExtractor) standalone(text string) []amountCandidate {
	var out []amountCandidate
	lower := strings.ToLower(text)

	for _, pat := range []*regexp.Regexp{currencyCodeAmount, currencySymbolAmount} {
		for _, loc := range pat.FindAllStringIndex(text, -1) {
			if loc[1] < len(text) && text[loc[1]] >= '0' && text[loc[1]] <= '9' {
				continue // truncated match inside a longer digit run
			}
			ctxStart := max(0, loc[0]-e.balanceWindow)
			ctxEnd := min(len(text), loc[1]+e.balanceWindow)
			context := lower[ctxStart:ctxEnd]
			if containsAny(context, balanceKeywords) {
				continue
			}

			value, ok := parseAmount(text[loc[0]:loc[1]])
			if !ok || !value.IsPositive() {
				continue
			}
			if value.LessThan(e.minPlausible) || value.GreaterThan(e.maxPlausible) {
				continue
			}
			out = append(out, amountCandidate{value: value, score: 1000, pos: loc[0], keyword: "standalone"})
		}
	}
	return out
}

// parseAmount strips currency markers and parses the remaining number.
// Comma thousands separators and implicit-cents whole numbers are accepted.
func parseAmount(s string) (decimal.Decimal, bool) {
	cleaned := s
	for _, sym := range currencySymbols {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = currencyCodeStrip.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	match := numberOnly.FindString(cleaned)
	if match == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// findAll returns every occurrence of needle in haystack
func findAll(haystack, needle string) []int {
	var positions []int
	start := 0
	for {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return positions
		}
		positions = append(positions, start+idx)
		start += idx + 1
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

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
