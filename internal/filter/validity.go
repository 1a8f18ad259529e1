// Package filter decides which sentences and documents are kept in the
// corpus.
package filter

import (
	"github.com/btraven00/korpus/internal/profile"
)

// Default thresholds.
const (
	DefaultMaxForeignRatio = 1.0
	DefaultMinLength       = 3
)

// Policy holds the thresholds of the validity filter.
type Policy struct {
	// MaxForeignRatio is the highest accepted ratio of foreign-script
	// characters to native letter runs.
	MaxForeignRatio float64 `json:"max_foreign_ratio" mapstructure:"max-foreign-ratio"`
	// MinLength is the minimum number of native letter runs.
	MinLength int `json:"min_length" mapstructure:"min-length"`
}

// DefaultPolicy returns the default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MaxForeignRatio: DefaultMaxForeignRatio,
		MinLength:       DefaultMinLength,
	}
}

// IsValid reports whether sentence is predominantly written in the profile's
// language and long enough. The number of maximal native letter runs is used
// both as the ratio denominator and as the word count. A sentence with no
// native letters is always rejected.
func IsValid(sentence string, p *profile.Profile, maxForeignRatio float64, minLength int) bool {
	runs := p.CountAlphabetRuns(sentence)
	if runs == 0 {
		return false
	}

	ratio := float64(p.CountForeign(sentence)) / float64(runs)
	if ratio > maxForeignRatio {
		return false
	}

	return runs >= minLength
}

// Valid applies IsValid with the policy's thresholds.
func (pol Policy) Valid(sentence string, p *profile.Profile) bool {
	return IsValid(sentence, p, pol.MaxForeignRatio, pol.MinLength)
}

// Sentences returns the sentences accepted by the policy, in order.
func Sentences(sentences []string, p *profile.Profile, pol Policy) []string {
	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if pol.Valid(s, p) {
			kept = append(kept, s)
		}
	}
	return kept
}
