// Package segment turns normalized prose into sentences: appendix stripping,
// generic sentence splitting, language-aware repair of false splits and
// isolation of properly terminated sentences.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"
)

// Splitter produces candidate sentences from text.
type Splitter interface {
	Split(text string) []string
}

var (
	punktMu    sync.Mutex
	punktCache = make(map[string]*sentences.DefaultSentenceTokenizer)
)

// PunktSplitter splits text with a Punkt model trained for a natural
// language. The language only selects the model's built-in punctuation and
// abbreviation heuristics.
type PunktSplitter struct {
	language  string
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktSplitter loads the Punkt model for language, e.g. "estonian".
// Models are loaded once per language and shared.
func NewPunktSplitter(language string) (*PunktSplitter, error) {
	tokenizer, err := loadPunkt(language)
	if err != nil {
		return nil, err
	}

	return &PunktSplitter{language: language, tokenizer: tokenizer}, nil
}

func loadPunkt(language string) (*sentences.DefaultSentenceTokenizer, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return nil, fmt.Errorf("punkt language cannot be empty")
	}

	punktMu.Lock()
	defer punktMu.Unlock()

	if tokenizer, ok := punktCache[language]; ok {
		return tokenizer, nil
	}

	b, err := sentencesdata.Asset("data/" + language + ".json")
	if err != nil {
		return nil, fmt.Errorf("load %s punkt data: %w", language, err)
	}

	training, err := sentences.LoadTraining(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s punkt data: %w", language, err)
	}

	tokenizer := sentences.NewSentenceTokenizer(training)
	punktCache[language] = tokenizer

	return tokenizer, nil
}

// Language returns the Punkt model language.
func (s *PunktSplitter) Language() string {
	return s.language
}

// Split returns trimmed, non-empty candidate sentences in reading order.
func (s *PunktSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := s.tokenizer.Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, sent := range raw {
		if trimmed := strings.TrimSpace(sent.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

var sentenceEndRegex = regexp.MustCompile(`[.!?]+["'»]?\s+`)

// RegexSplitter breaks after terminal punctuation followed by whitespace.
// It is the fallback when no Punkt model is available.
type RegexSplitter struct{}

// NewRegexSplitter creates a regex splitter.
func NewRegexSplitter() *RegexSplitter {
	return &RegexSplitter{}
}

// Split returns trimmed, non-empty candidate sentences in reading order.
func (s *RegexSplitter) Split(text string) []string {
	var out []string

	start := 0
	for _, loc := range sentenceEndRegex.FindAllStringIndex(text, -1) {
		if trimmed := strings.TrimSpace(text[start:loc[1]]); trimmed != "" {
			out = append(out, trimmed)
		}
		start = loc[1]
	}

	if trimmed := strings.TrimSpace(text[start:]); trimmed != "" {
		out = append(out, trimmed)
	}

	return out
}

// NewSplitter returns a Punkt splitter for language, or a RegexSplitter
// together with the load error when the model is unavailable.
func NewSplitter(language string) (Splitter, error) {
	punkt, err := NewPunktSplitter(language)
	if err != nil {
		return NewRegexSplitter(), err
	}
	return punkt, nil
}
