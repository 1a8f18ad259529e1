package segment

import (
	"unicode/utf8"

	"github.com/btraven00/korpus/internal/profile"
)

// Merge repairs false splits left by the generic splitter. It first glues a
// segment ending in a known abbreviation to the one after it ("c. 1987"),
// repeatedly, then glues segments that start with a lowercase native letter
// to the one before them. The input slice is not modified.
func Merge(segments []string, p *profile.Profile) []string {
	merged := MergeAbbreviations(segments, p)
	return MergeContinuations(merged, p)
}

// MergeAbbreviations joins a segment that ends with an abbreviation with the
// next one. The joined segment is checked again, so chains like "v. 3 k."
// followed by more fragments keep absorbing.
func MergeAbbreviations(segments []string, p *profile.Profile) []string {
	if len(segments) == 0 {
		return nil
	}

	out := make([]string, 0, len(segments))
	current := segments[0]

	for _, next := range segments[1:] {
		if p.EndsWithAbbreviation(current) {
			current = current + " " + next
			continue
		}
		out = append(out, current)
		current = next
	}

	return append(out, current)
}

// MergeContinuations appends every segment whose first character is a
// lowercase letter of the profile alphabet to the segment before it.
func MergeContinuations(segments []string, p *profile.Profile) []string {
	if len(segments) == 0 {
		return nil
	}

	out := make([]string, 1, len(segments))
	out[0] = segments[0]

	for _, seg := range segments[1:] {
		if startsWithLower(seg, p) {
			out[len(out)-1] = out[len(out)-1] + " " + seg
			continue
		}
		out = append(out, seg)
	}

	return out
}

func startsWithLower(s string, p *profile.Profile) bool {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return false
	}
	return p.IsLowerLetter(r)
}
