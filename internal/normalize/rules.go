package normalize

import (
	"fmt"
	"regexp"
	"sort"
)

// Rule rewrites every match of Pattern with Replacement.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// NewRule compiles pattern into a rule. It panics on an invalid pattern and
// is meant for package-level rule tables.
func NewRule(pattern, replacement string) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
}

// Apply rewrites text with the rule.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllLiteralString(text, r.Replacement)
}

// Names of the built-in rule sets.
const (
	SetWiki      = "wiki"
	SetSentence  = "sentence"
	SetParagraph = "paragraph"
)

// Encyclopedia articles. Space collapsing must stay last.
var wikiRules = []Rule{
	// redundant commas, colons and spaces in parentheses
	NewRule(`[ ]+[,;]`, ","),
	NewRule(`,;`, ";"),
	NewRule(`;,`, ";"),
	NewRule(`,+`, ","),
	NewRule(`;+`, ";"),
	NewRule(`\([ ,;]+`, "("),
	NewRule(`[ ,;]+\)`, ")"),

	// empty parentheses
	NewRule(`[ ]*\([,? ]*\)`, ""),

	NewRule(`\r`, ""),

	// spaced hyphens and en dashes become em dashes
	NewRule(` [-–] `, " — "),

	NewRule(`\x{00A0}`, " "),
	NewRule(`\x{200E}`, ""),
	NewRule(`\x{200F}`, ""),
	NewRule(`\x{FEFF}`, ""),

	NewRule(` +`, " "),
}

// Dictionary-corpus sentences arrive one per record, so line breaks are
// flattened.
var sentenceRules = []Rule{
	NewRule(`Â[ \x{00A0}]`, " "),
	NewRule(`\r`, ""),
	NewRule(`\n`, " "),
	NewRule(` +`, " "),
}

// News paragraphs.
var paragraphRules = []Rule{
	NewRule(`\x{00A0}`, " "),
	NewRule(`Â[ \x{00A0}]`, " "),
	NewRule(` +`, " "),
}

var ruleSets = map[string][]Rule{
	SetWiki:      wikiRules,
	SetSentence:  sentenceRules,
	SetParagraph: paragraphRules,
}

// RuleSet returns a copy of the named rule set.
func RuleSet(name string) ([]Rule, error) {
	rules, ok := ruleSets[name]
	if !ok {
		return nil, fmt.Errorf("unknown rule set '%s' (available: %v)", name, RuleSetNames())
	}

	out := make([]Rule, len(rules))
	copy(out, rules)
	return out, nil
}

// RuleSetNames lists the built-in rule sets.
func RuleSetNames() []string {
	names := make([]string, 0, len(ruleSets))
	for name := range ruleSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WikiRules returns the encyclopedia rule set.
func WikiRules() []Rule {
	rules, _ := RuleSet(SetWiki)
	return rules
}

// SentenceRules returns the dictionary-corpus rule set.
func SentenceRules() []Rule {
	rules, _ := RuleSet(SetSentence)
	return rules
}

// ParagraphRules returns the news rule set.
func ParagraphRules() []Rule {
	rules, _ := RuleSet(SetParagraph)
	return rules
}
