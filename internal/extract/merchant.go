package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spendlens/spendlens/internal/model"
)

// knownMerchants maps lowercase name fragments to canonical display
// names. The longest matching key wins, so "bag of beans cafe" beats
// "bag of beans".
var knownMerchants = map[string]string{
	"walmart":       "Walmart",
	"wal mart":      "Walmart",
	"walgreens":     "Walgreens",
	"target":        "Target",
	"starbucks":     "Starbucks",
	"7-eleven":      "7-Eleven",
	"kroger":        "Kroger",
	"costco":        "Costco",
	"shell":         "Shell",
	"mcdonald":      "McDonald's",
	"burger king":   "Burger King",
	"dunkin":        "Dunkin'",
	"chipotle":      "Chipotle",
	"subway":        "Subway",
	"amazon":        "Amazon",
	"ebay":          "eBay",
	"best buy":      "Best Buy",
	"home depot":    "Home Depot",
	"netflix":       "Netflix",
	"spotify":       "Spotify",
	"hulu":          "Hulu",
	"uber":          "Uber",
	"lyft":          "Lyft",
	"alfamart":      "Alfamart",
	"whole foods":   "Whole Foods",
	"trader joe":    "Trader Joe's",
	"cvs":           "CVS",
	"zomato":        "Zomato",
	"microsoft":     "Microsoft",
	"adobe":         "Adobe",
	"airbnb":        "Airbnb",
	"marriott":      "Marriott",
	"hilton":        "Hilton",
}

var (
	businessTypeWord = regexp.MustCompile(`(?i)\b(cafe|restaurant|market|mart|store|shop|inc|corp|llc|supercenter|bakery|grill|deli)\b`)
	decimalAmount    = regexp.MustCompile(`\d+\.\d{2}`)
	longDigitRun     = regexp.MustCompile(`\d{3,}`)
	letterRun        = regexp.MustCompile(`[A-Za-z]`)
)

// MerchantExtractor identifies the merchant or business name in
// transaction text. Stateless and safe for concurrent use.
type MerchantExtractor struct {
	maxLines int
	titler   cases.Caser
}

// NewMerchantExtractor creates a merchant extractor
func NewMerchantExtractor(cfg model.ExtractConfig) *MerchantExtractor {
	return &MerchantExtractor{
		maxLines: cfg.MerchantMaxLines,
		titler:   cases.Title(language.English),
	}
}

// Extract returns the merchant name, or false when none can be
// identified. A dictionary hit always overrides heuristic scoring.
func (e *MerchantExtractor) Extract(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	if name, ok := e.lookupKnown(text); ok {
		return name, true
	}
	return e.scoreLines(text)
}

// lookupKnown finds the longest dictionary key present in the text
func (e *MerchantExtractor) lookupKnown(text string) (string, bool) {
	lower := strings.ToLower(text)
	best := ""
	for key := range knownMerchants {
		if strings.Contains(lower, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return "", false
	}
	return knownMerchants[best], true
}

// scoreLines ranks the leading lines of the text. Merchant names cluster
// near the document top, rarely contain long digit sequences, and tend
// to carry business-type words or all-caps styling.
func (e *MerchantExtractor) scoreLines(text string) (string, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 1 {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	if len(lines) > e.maxLines {
		lines = lines[:e.maxLines]
	}

	bestLine := ""
	bestScore := -999.0

	for idx, line := range lines {
		score := 0.0

		if businessTypeWord.MatchString(line) {
			score += 8
		}
		score -= 6 * float64(len(decimalAmount.FindAllString(line, -1)))
		score -= 3 * float64(len(longDigitRun.FindAllString(line, -1)))
		score -= float64(len(line)) * 0.015
		if isAllUpper(line) {
			score += 4
		}
		switch {
		case idx == 0:
			score += 4
		case idx <= 2:
			score += 2
		}

		if score > bestScore {
			bestScore = score
			bestLine = line
		}
	}

	if bestLine == "" {
		return "", false
	}

	// Addresses and slogans often trail a colon or semicolon
	if cut := strings.IndexAny(bestLine, ":;"); cut >= 0 {
		bestLine = bestLine[:cut]
	}
	bestLine = strings.TrimSpace(bestLine)
	if len(bestLine) < 3 {
		return "", false
	}
	return e.titler.String(strings.ToLower(bestLine)), true
}

// isAllUpper reports whether a line with letters has no lowercase ones
func isAllUpper(line string) bool {
	if !letterRun.MatchString(line) {
		return false
	}
	return line == strings.ToUpper(line)
}
