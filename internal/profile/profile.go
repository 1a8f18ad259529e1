// Package profile holds the per-language configuration used by the corpus
// pipeline: the native alphabet, abbreviations that must not end a sentence,
// title stop-phrases and the headings that open appendix sections.
package profile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultForeignScript is the character class counted as foreign-script
// contamination when a profile does not declare its own.
const DefaultForeignScript = "а-яА-Я"

// DefaultSplitterLanguage is the Punkt training set used when a profile does
// not name one.
const DefaultSplitterLanguage = "estonian"

// ErrUnknownLanguage is returned when no profile is registered for a code.
var ErrUnknownLanguage = errors.New("unknown language")

// Spec is the serialized form of a profile.
type Spec struct {
	Code             string   `yaml:"code"`
	Name             string   `yaml:"name"`
	Aliases          []string `yaml:"aliases"`
	Splitter         string   `yaml:"splitter"`
	Alphabet         string   `yaml:"alphabet"`
	ForeignScript    string   `yaml:"foreign_script"`
	Abbreviations    []string `yaml:"abbreviations"`
	StopPhrases      []string `yaml:"stop_phrases"`
	AppendixHeadings []string `yaml:"appendix_headings"`
}

// Profile is an immutable language profile. Build one with New.
type Profile struct {
	code             string
	name             string
	aliases          []string
	splitter         string
	alphabet         string
	abbreviations    []string
	stopPhrases      []string
	appendixHeadings []string

	letters      map[rune]struct{}
	abbreviation *regexp.Regexp
	stopTitles   []*regexp.Regexp
	foreign      *regexp.Regexp
}

// New validates a spec and compiles its matchers.
func New(spec Spec) (*Profile, error) {
	code := strings.ToLower(strings.TrimSpace(spec.Code))
	if code == "" {
		return nil, fmt.Errorf("profile must have a non-empty code")
	}

	if spec.Alphabet == "" {
		return nil, fmt.Errorf("profile '%s': alphabet cannot be empty", code)
	}

	p := &Profile{
		code:             code,
		name:             spec.Name,
		aliases:          cloneStrings(spec.Aliases),
		splitter:         spec.Splitter,
		alphabet:         spec.Alphabet,
		abbreviations:    cloneStrings(spec.Abbreviations),
		stopPhrases:      cloneStrings(spec.StopPhrases),
		appendixHeadings: cloneStrings(spec.AppendixHeadings),
		letters:          make(map[rune]struct{}, utf8.RuneCountInString(spec.Alphabet)),
	}

	if p.name == "" {
		p.name = code
	}

	if p.splitter == "" {
		p.splitter = DefaultSplitterLanguage
	}

	for _, r := range spec.Alphabet {
		p.letters[r] = struct{}{}
	}

	if len(p.abbreviations) > 0 {
		quoted := make([]string, len(p.abbreviations))
		for i, abbr := range p.abbreviations {
			quoted[i] = regexp.QuoteMeta(abbr)
		}

		p.abbreviation = regexp.MustCompile(`[\[( ](?:` + strings.Join(quoted, "|") + `)$`)
	}

	for _, phrase := range p.stopPhrases {
		re, err := regexp.Compile(phrase)
		if err != nil {
			return nil, fmt.Errorf("profile '%s': invalid stop phrase %q: %w", code, phrase, err)
		}
		p.stopTitles = append(p.stopTitles, re)
	}

	foreign := spec.ForeignScript
	if foreign == "" {
		foreign = DefaultForeignScript
	}

	re, err := regexp.Compile("[" + foreign + "]")
	if err != nil {
		return nil, fmt.Errorf("profile '%s': invalid foreign script class %q: %w", code, foreign, err)
	}
	p.foreign = re

	return p, nil
}

// Code returns the language code, e.g. "olo".
func (p *Profile) Code() string { return p.code }

// Name returns the human-readable language name.
func (p *Profile) Name() string { return p.name }

// Aliases returns the alternative names the profile is registered under.
func (p *Profile) Aliases() []string { return cloneStrings(p.aliases) }

// SplitterLanguage names the Punkt training set for the generic splitter.
func (p *Profile) SplitterLanguage() string { return p.splitter }

// Alphabet returns the native alphabet in declaration order.
func (p *Profile) Alphabet() string { return p.alphabet }

// Abbreviations returns the abbreviation list.
func (p *Profile) Abbreviations() []string { return cloneStrings(p.abbreviations) }

// StopPhrases returns the title stop-phrase patterns.
func (p *Profile) StopPhrases() []string { return cloneStrings(p.stopPhrases) }

// AppendixHeadings returns the headings that open trailing boilerplate.
func (p *Profile) AppendixHeadings() []string { return cloneStrings(p.appendixHeadings) }

// InAlphabet reports whether r is a letter of the native alphabet.
func (p *Profile) InAlphabet(r rune) bool {
	_, ok := p.letters[r]
	return ok
}

// IsLowerLetter reports whether r is a lowercase letter of the native alphabet.
func (p *Profile) IsLowerLetter(r rune) bool {
	return p.InAlphabet(r) && unicode.IsLower(r)
}

// EndsWithAbbreviation reports whether s ends with a known abbreviation that
// is preceded by a space or an opening bracket.
func (p *Profile) EndsWithAbbreviation(s string) bool {
	if p.abbreviation == nil {
		return false
	}
	return p.abbreviation.MatchString(s)
}

// StopsTitle reports whether the title matches any stop-phrase.
func (p *Profile) StopsTitle(title string) bool {
	for _, re := range p.stopTitles {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// CountAlphabetRuns counts maximal runs of native-alphabet characters.
func (p *Profile) CountAlphabetRuns(s string) int {
	runs := 0
	inRun := false

	for _, r := range s {
		if p.InAlphabet(r) {
			if !inRun {
				runs++
				inRun = true
			}
			continue
		}
		inRun = false
	}

	return runs
}

// CountForeign counts individual foreign-script characters.
func (p *Profile) CountForeign(s string) int {
	return len(p.foreign.FindAllStringIndex(s, -1))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
