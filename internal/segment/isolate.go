package segment

import (
	"regexp"
	"strings"
)

// terminalRegex matches a sentence-final mark, optionally closed by a quote.
var terminalRegex = regexp.MustCompile(`[.!?]["'»]?$`)

// Isolate splits a segment on line breaks and keeps the trimmed lines that
// end like a sentence. Table cells, captions and markup remnants are dropped.
func Isolate(segment string) []string {
	var out []string

	for _, line := range strings.Split(segment, "\n") {
		chunk := strings.TrimSpace(line)
		if chunk == "" {
			continue
		}

		if IsTerminated(chunk) {
			out = append(out, chunk)
		}
	}

	return out
}

// IsolateAll applies Isolate to every segment, preserving order.
func IsolateAll(segments []string) []string {
	var out []string
	for _, seg := range segments {
		out = append(out, Isolate(seg)...)
	}
	return out
}

// IsTerminated reports whether s ends with ".", "!" or "?", optionally
// followed by a closing quotation mark.
func IsTerminated(s string) bool {
	return terminalRegex.MatchString(s)
}
