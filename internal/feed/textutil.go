package feed

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/muesli/reflow/wordwrap"
)

const (
	// summaryWidth bounds the human-readable preview text.
	summaryWidth = 150
	// wrapWidth matches the conventional terminal paragraph width.
	wrapWidth = 70
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// StripHTML removes all markup from a string, leaving only its text.
func StripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// Condense collapses runs of whitespace to single spaces and re-wraps each
// blank-line-delimited paragraph. The transformation is lossy; the result
// is only meant for previews and content hashing, never round-tripping.
func Condense(text string) string {
	var paragraphs []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(whitespaceRun.ReplaceAllString(part, " "))
		if part == "" {
			continue
		}
		paragraphs = append(paragraphs, wordwrap.String(part, wrapWidth))
	}
	return strings.Join(paragraphs, "\n\n")
}

// Shorten trims text to at most width characters on a word boundary,
// appending an ellipsis when anything was cut.
func Shorten(text string, width int) string {
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if len(text) <= width {
		return text
	}

	const placeholder = "..."
	var b strings.Builder
	for _, word := range strings.Fields(text) {
		need := b.Len() + len(word) + len(placeholder)
		if b.Len() > 0 {
			need++ // joining space
		}
		if need > width {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}
	if b.Len() == 0 {
		return placeholder
	}
	return b.String() + placeholder
}

// ContentHash digests normalized post content. Identical content always
// produces an identical hash, which is what update detection relies on.
func ContentHash(normalized string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(normalized)))
}
