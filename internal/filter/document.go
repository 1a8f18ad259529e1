package filter

import (
	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/profile"
)

// Reason explains a document filter decision.
type Reason string

const (
	ReasonKept        Reason = "kept"
	ReasonStopTitle   Reason = "stop_title"
	ReasonNoSentences Reason = "no_sentences"
)

// Check decides whether a document with the given title and surviving
// sentences stays in the corpus.
func Check(title string, sentences []string, p *profile.Profile) Reason {
	if p.StopsTitle(title) {
		return ReasonStopTitle
	}
	if len(sentences) == 0 {
		return ReasonNoSentences
	}
	return ReasonKept
}

// Document drops doc when its title contains a stop phrase, otherwise keeps
// only its valid sentences and drops it when none remain. doc is not
// modified; the kept record is a copy.
func Document(doc *corpus.Document, p *profile.Profile, pol Policy) (*corpus.Document, bool) {
	out, reason := Apply(doc, p, pol)
	if reason != ReasonKept {
		return nil, false
	}
	return out, true
}

// Apply returns a copy of doc holding only its valid sentences, and the
// decision for it. The copy is returned for dropped documents as well.
func Apply(doc *corpus.Document, p *profile.Profile, pol Policy) (*corpus.Document, Reason) {
	kept := Sentences(doc.Sentences, p, pol)

	return &corpus.Document{
		ID:        doc.ID,
		URL:       doc.URL,
		Title:     doc.Title,
		Sentences: kept,
	}, Check(doc.Title, kept, p)
}
