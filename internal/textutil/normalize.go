package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var spaceRuns = regexp.MustCompile(`[ \t]+`)

// Normalize prepares a raw alert body or OCR dump for extraction. Email
// alerts frequently arrive as HTML; when the input contains markup the
// visible text is extracted, skipping script and style content. Runs of
// spaces and tabs collapse to one space. Newlines are preserved because
// merchant extraction is line-oriented.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if looksLikeHTML(text) {
		if doc, err := html.Parse(strings.NewReader(text)); err == nil {
			text = visibleText(doc)
		}
	}

	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// looksLikeHTML is a cheap check for markup; plain SMS bodies with a
// stray "<" should not take the parse path.
func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{"<html", "<body", "<div", "<p>", "<br", "<table", "<span"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// visibleText extracts text nodes from HTML, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		// Block-level elements become line breaks so downstream
		// line scoring still sees document structure.
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "br", "tr", "li", "h1", "h2", "h3":
				buf.WriteString("\n")
			}
		}
	}

	walk(n)
	return buf.String()
}

// CountSentences counts non-empty period-separated segments
func CountSentences(text string) int {
	count := 0
	for _, s := range strings.Split(text, ".") {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}
