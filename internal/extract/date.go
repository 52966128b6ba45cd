package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spendlens/spendlens/internal/model"
)

// timeNow is the clock used for date validation (injectable for tests)
var timeNow = time.Now

// dateKeywords suggest that nearby text contains the transaction date
var dateKeywords = []string{
	"on", "date", "dated", "transaction", "charged", "billed", "purchased",
	"payment", "transfer", "withdrawal", "deposit", "processed", "completed",
	"billing", "renewed", "confirmed",
}

// dateAvoidKeywords mark numeric contexts that are not dates: amounts,
// card and reference IDs, phone numbers.
var dateAvoidKeywords = []string{
	"amount", "balance", "total", "price", "cost", "fee", "limit",
	"account", "card", "number", "id", "phone", "mobile", "contact",
}

var monthNumbers = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthAbbrevPat = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`

var (
	isoDatePat   = regexp.MustCompile(`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b`)
	dmyDatePat   = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{4}\b`)
	shortDatePat = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2}\b`)
	monthDayPat  = regexp.MustCompile(`(?i)\b` + monthAbbrevPat + `[a-z]*\s+\d{1,2}(?:,?\s+\d{4})?\b`)
	dayMonthPat  = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthAbbrevPat + `[a-z]*(?:\s+\d{4})?\b`)

	isoParts       = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	dmyParts       = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)
	shortParts     = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{2})`)
	monthDayYear   = regexp.MustCompile(`(?i)\b([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})\b`)
	dayMonthYear   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)\s+(\d{4})\b`)
	monthDayNoYear = regexp.MustCompile(`(?i)\b([A-Za-z]+)\s+(\d{1,2})\b`)
	dayMonthNoYear = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)\b`)
)

// windowDatePatterns are the shapes searched near date keywords
var windowDatePatterns = []*regexp.Regexp{
	isoDatePat, dmyDatePat, shortDatePat, monthDayPat, dayMonthPat,
}

type dateCandidate struct {
	text     string
	priority int
	pos      int
}

// DateExtractor finds the single best calendar date in transaction text.
// Stateless and safe for concurrent use.
type DateExtractor struct {
	window      int
	maxAgeYears int
}

// NewDateExtractor creates a date extractor with the given tuning
func NewDateExtractor(cfg model.ExtractConfig) *DateExtractor {
	return &DateExtractor{
		window:      cfg.DateWindow,
		maxAgeYears: cfg.MaxDateAgeYears,
	}
}

// Extract returns the most likely transaction date as YYYY-MM-DD, or
// false when the text holds no valid date. Future dates and dates older
// than the configured horizon are discarded, never guessed.
func (e *DateExtractor) Extract(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	now := timeNow()
	candidates := e.collect(text)

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority < candidates[j].priority
		}
		return candidates[i].pos < candidates[j].pos
	})

	for _, c := range candidates {
		if iso, ok := e.parseSingle(c.text, now); ok {
			return iso, true
		}
	}
	return "", false
}

// collect gathers date-shaped substrings with context-based priorities:
// keyword-anchored first, then ISO literals, then other numeric formats,
// then textual months as the last resort.
func (e *DateExtractor) collect(text string) []dateCandidate {
	var candidates []dateCandidate
	lower := strings.ToLower(text)

	for _, keyword := range dateKeywords {
		for _, kwPos := range findAll(lower, keyword) {
			winStart := max(0, kwPos-e.window)
			winEnd := min(len(text), kwPos+len(keyword)+e.window)
			window := text[winStart:winEnd]
			kwOffset := kwPos - winStart

			for _, pat := range windowDatePatterns {
				for _, loc := range pat.FindAllStringIndex(window, -1) {
					candidates = append(candidates, dateCandidate{
						text:     window[loc[0]:loc[1]],
						priority: abs(loc[0] - kwOffset),
						pos:      winStart + loc[0],
					})
				}
			}
		}
	}

	for _, loc := range isoDatePat.FindAllStringIndex(text, -1) {
		if e.avoidContext(lower, loc) {
			continue
		}
		candidates = append(candidates, dateCandidate{text: text[loc[0]:loc[1]], priority: 1000, pos: loc[0]})
	}

	for _, pat := range []*regexp.Regexp{dmyDatePat, shortDatePat} {
		for _, loc := range pat.FindAllStringIndex(text, -1) {
			if e.avoidContext(lower, loc) {
				continue
			}
			candidates = append(candidates, dateCandidate{text: text[loc[0]:loc[1]], priority: 2000, pos: loc[0]})
		}
	}

	for _, loc := range monthDayPat.FindAllStringIndex(text, -1) {
		candidates = append(candidates, dateCandidate{text: text[loc[0]:loc[1]], priority: 3000, pos: loc[0]})
	}

	return candidates
}

// avoidContext reports whether a match sits next to amount/ID/phone
// wording, which makes a date reading unlikely.
func (e *DateExtractor) avoidContext(lower string, loc []int) bool {
	ctxStart := max(0, loc[0]-20)
	ctxEnd := min(len(lower), loc[1]+20)
	return containsAny(lower[ctxStart:ctxEnd], dateAvoidKeywords)
}

// parseSingle parses one date-shaped string into ISO form. Two-digit
// years read as MM/DD/YY (US default) unless the first token exceeds 12,
// which can only be a day. This ambiguity is inherent to the format; the
// heuristic is a documented limitation, not a bug.
func (e *DateExtractor) parseSingle(s string, now time.Time) (string, bool) {
	s = strings.TrimSpace(s)

	if m := isoParts.FindStringSubmatch(s); m != nil {
		if iso, ok := e.validate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), now); ok {
			return iso, true
		}
	}

	if m := dmyParts.FindStringSubmatch(s); m != nil {
		if iso, ok := e.validate(atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]), now); ok {
			return iso, true
		}
	}

	if m := shortParts.FindStringSubmatch(s); m != nil {
		first, second := atoi(m[1]), atoi(m[2])
		year := expandYear(atoi(m[3]))
		if first <= 12 {
			if iso, ok := e.validate(year, time.Month(first), second, now); ok {
				return iso, true
			}
		}
		if first > 12 {
			if iso, ok := e.validate(year, time.Month(second), first, now); ok {
				return iso, true
			}
		}
	}

	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[1]); ok {
			if iso, ok := e.validate(atoi(m[3]), month, atoi(m[2]), now); ok {
				return iso, true
			}
		}
	}

	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			if iso, ok := e.validate(atoi(m[3]), month, atoi(m[1]), now); ok {
				return iso, true
			}
		}
	}

	// Year-less textual dates default to the current year, rolled back
	// one year if that would land in the future.
	if m := monthDayNoYear.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[1]); ok {
			if iso, ok := e.validateYearless(month, atoi(m[2]), now); ok {
				return iso, true
			}
		}
	}

	if m := dayMonthNoYear.FindStringSubmatch(s); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			if iso, ok := e.validateYearless(month, atoi(m[1]), now); ok {
				return iso, true
			}
		}
	}

	return "", false
}

// validate checks calendar validity and the plausible transaction window:
// not in the future and not older than the configured horizon.
func (e *DateExtractor) validate(year int, month time.Month, day int, now time.Time) (string, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return "", false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return "", false // e.g. April 31 normalized away
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return "", false
	}
	if year < now.Year()-e.maxAgeYears {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day), true
}

func (e *DateExtractor) validateYearless(month time.Month, day int, now time.Time) (string, bool) {
	year := now.Year()
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return "", false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != month || d.Day() != day {
		return "", false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		year--
	}
	return e.validate(year, month, day, now)
}

// expandYear converts a 2-digit year: 00-30 reads as 20xx, 31-99 as 19xx
func expandYear(short int) int {
	if short <= 30 {
		return 2000 + short
	}
	return 1900 + short
}

func lookupMonth(name string) (time.Month, bool) {
	month, ok := monthNumbers[strings.ToLower(name)]
	return month, ok
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
