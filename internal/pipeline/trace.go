package pipeline

import (
	"golang.org/x/text/unicode/norm"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/filter"
	"github.com/btraven00/korpus/internal/segment"
)

// Trace holds the output of every stage for one document.
type Trace struct {
	Raw        string        `json:"raw"`
	Stripped   string        `json:"stripped"`
	Normalized string        `json:"normalized"`
	Segments   []string      `json:"segments"`
	Merged     []string      `json:"merged"`
	Isolated   []string      `json:"isolated"`
	Valid      []string      `json:"valid"`
	Reason     filter.Reason `json:"reason"`
	Kept       bool          `json:"kept"`
}

// Trace runs every stage on raw and records the intermediate results.
// Disabled stages pass their input through unchanged. The raw text is
// composed to NFC before appendix headings are matched.
func (pl *Pipeline) Trace(raw *corpus.RawDocument) Trace {
	var tr Trace

	tr.Raw = raw.Text()
	tr.Stripped = segment.StripAppendix(norm.NFC.String(tr.Raw), pl.profile)

	tr.Normalized = tr.Stripped
	if pl.normalize {
		tr.Normalized = pl.normalizer.Normalize(tr.Stripped)
	}

	tr.Segments = pl.splitter.Split(tr.Normalized)
	tr.Merged = segment.Merge(tr.Segments, pl.profile)
	tr.Isolated = segment.IsolateAll(tr.Merged)

	if !pl.filter {
		tr.Valid = tr.Isolated
		tr.Reason = filter.ReasonKept
		tr.Kept = true
		return tr
	}

	doc, reason := filter.Apply(corpus.NewDocument(raw, tr.Isolated), pl.profile, pl.policy)
	tr.Valid = doc.Sentences
	tr.Reason = reason
	tr.Kept = reason == filter.ReasonKept

	return tr
}
