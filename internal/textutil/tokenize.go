package textutil

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are excluded from the classifier vocabulary. The list covers
// common English function words plus transaction boilerplate that carries
// no category signal.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "this": true, "to": true, "was": true,
	"were": true, "will": true, "with": true, "you": true, "your": true,
}

// Tokenize lowercases text and returns its alphanumeric tokens with stop
// words removed.
func Tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if !stopWords[t] {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Bigrams joins adjacent tokens with a space, matching the vectorizer's
// (1,2) n-gram range.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	grams := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}
	return grams
}

// NGrams returns unigrams followed by bigrams
func NGrams(text string) []string {
	tokens := Tokenize(text)
	return append(tokens, Bigrams(tokens)...)
}
