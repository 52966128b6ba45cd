package textutil

import (
	"strings"
	"testing"
)

func TestNormalize_PlainText(t *testing.T) {
	got := Normalize("  WALMART   purchase\t$45.67  ")
	want := "WALMART purchase $45.67"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_CRLF(t *testing.T) {
	got := Normalize("line one\r\nline two\rline three")
	if got != "line one\nline two\nline three" {
		t.Errorf("expected normalized newlines, got %q", got)
	}
}

func TestNormalize_HTML(t *testing.T) {
	raw := `<html><body>
		<p>Netflix subscription $15.99</p>
		<script>var x = "balance 9999";</script>
		<div>Thank you</div>
	</body></html>`

	got := Normalize(raw)
	if !strings.Contains(got, "Netflix subscription $15.99") {
		t.Errorf("expected visible text preserved, got %q", got)
	}
	if strings.Contains(got, "9999") {
		t.Errorf("script content should be dropped, got %q", got)
	}
}

func TestNormalize_StrayAngleBracket(t *testing.T) {
	// a lone "<" in an SMS must not trigger HTML parsing
	got := Normalize("amount < 50 at Walmart")
	if got != "amount < 50 at Walmart" {
		t.Errorf("plain text mangled: %q", got)
	}
}

func TestCountSentences(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"One sentence.", 1},
		{"First. Second. Third.", 3},
		{"No terminator", 1},
		{"..", 0},
	}
	for _, tc := range cases {
		if got := CountSentences(tc.text); got != tc.want {
			t.Errorf("CountSentences(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestTokenize_StopWordsDropped(t *testing.T) {
	tokens := Tokenize("Payment of $45 to the Walmart store")
	for _, tok := range tokens {
		if tok == "of" || tok == "to" || tok == "the" {
			t.Errorf("stop word %q should be dropped", tok)
		}
	}
	joined := strings.Join(tokens, " ")
	if !strings.Contains(joined, "payment") || !strings.Contains(joined, "walmart") {
		t.Errorf("expected content tokens, got %v", tokens)
	}
}

func TestNGrams_UnigramsThenBigrams(t *testing.T) {
	grams := NGrams("netflix subscription renewal")
	want := []string{
		"netflix", "subscription", "renewal",
		"netflix subscription", "subscription renewal",
	}
	if len(grams) != len(want) {
		t.Fatalf("expected %d grams, got %d: %v", len(want), len(grams), grams)
	}
	for i, w := range want {
		if grams[i] != w {
			t.Errorf("gram %d: expected %q, got %q", i, w, grams[i])
		}
	}
}
