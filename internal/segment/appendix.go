package segment

import (
	"strings"

	"github.com/btraven00/korpus/internal/profile"
)

// paragraphBreak anchors appendix headings to the start of a paragraph.
const paragraphBreak = "\n\n"

// StripAppendix truncates text before the earliest paragraph that opens with
// one of the profile's appendix headings. It must run on raw text: the
// paragraph breaks it looks for do not survive normalization.
func StripAppendix(text string, p *profile.Profile) string {
	cut := AppendixStart(text, p)
	if cut < 0 {
		return text
	}
	return text[:cut]
}

// AppendixStart returns the byte offset of the earliest appendix boundary,
// or -1 when the text has none.
func AppendixStart(text string, p *profile.Profile) int {
	cut := -1

	for _, heading := range p.AppendixHeadings() {
		if heading == "" {
			continue
		}

		idx := strings.Index(text, paragraphBreak+heading)
		if idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}

	return cut
}
