// Package normalize rewrites extracted prose with ordered regular-expression
// rules (whitespace, punctuation, dashes and invisible characters) before it
// is split into sentences.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalizer applies a fixed rule list to text.
type Normalizer struct {
	rules []Rule
}

// New creates a normalizer over rules. The slice is copied.
func New(rules []Rule) *Normalizer {
	return &Normalizer{rules: append([]Rule(nil), rules...)}
}

// Normalize composes text to NFC, then repeats trim plus one ordered pass
// over the rules until the text stops changing.
func (n *Normalizer) Normalize(text string) string {
	text = norm.NFC.String(text)

	// Every rule either shortens the text or removes a character no rule
	// produces, so the loop terminates.
	for {
		next := n.pass(text)
		if next == text {
			return text
		}
		text = next
	}
}

// pass trims text and applies every rule once, each on the output of the
// previous one.
func (n *Normalizer) pass(text string) string {
	text = strings.TrimSpace(text)
	for _, rule := range n.rules {
		text = rule.Apply(text)
	}
	return text
}

// Normalize applies rules to text with the default options.
func Normalize(text string, rules []Rule) string {
	return New(rules).Normalize(text)
}
