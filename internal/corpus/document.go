// Package corpus defines the document records that flow through the
// pipeline and their JSON encodings.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// DocumentID is an opaque document identifier. Catalogs deliver it either as
// a string or as a number; it always encodes as a string.
type DocumentID string

// NewDocumentID returns a random identifier for records that lack one.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.NewString())
}

// String returns the identifier text.
func (id DocumentID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id DocumentID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON accepts a JSON string, number or null.
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = DocumentID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", string(data))
	}
	*id = DocumentID(n.String())

	return nil
}

// MarshalJSON encodes the identifier as a JSON string.
func (id DocumentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// RawDocument is one input record: a page already reduced to plain text.
type RawDocument struct {
	ID         DocumentID `json:"id"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	RawText    string     `json:"raw_text"`
	Paragraphs []string   `json:"paragraphs,omitempty"`
}

// Text returns the raw text. Records that only carry paragraphs are joined
// with blank lines so appendix headings still sit at paragraph starts.
func (d *RawDocument) Text() string {
	if d.RawText != "" || len(d.Paragraphs) == 0 {
		return d.RawText
	}
	return strings.Join(d.Paragraphs, "\n\n")
}

// Document is one output record.
type Document struct {
	ID        DocumentID `json:"id"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Sentences []string   `json:"sentences"`
}

// NewDocument creates an output record carrying raw's metadata.
func NewDocument(raw *RawDocument, sentences []string) *Document {
	if sentences == nil {
		sentences = []string{}
	}

	return &Document{
		ID:        raw.ID,
		URL:       raw.URL,
		Title:     raw.Title,
		Sentences: sentences,
	}
}

// SentenceMap maps sentence numbers to sentence text.
type SentenceMap map[int]string

// Keys returns the sentence numbers in ascending order.
func (m SentenceMap) Keys() []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ParallelDocument is a dictionary-corpus text: numbered sentences with an
// optional numbered translation.
type ParallelDocument struct {
	ID          DocumentID  `json:"id"`
	Dialect     string      `json:"dialect,omitempty"`
	Corpus      string      `json:"corpus,omitempty"`
	Genre       string      `json:"genre,omitempty"`
	Title       string      `json:"title"`
	Mono        bool        `json:"mono"`
	Text        SentenceMap `json:"text"`
	Translation SentenceMap `json:"translation,omitempty"`
}

// SentencePair is one aligned sentence of a parallel document.
type SentencePair struct {
	ID          DocumentID `json:"id"`
	Number      int        `json:"n"`
	Text        string     `json:"text"`
	Translation string     `json:"translation"`
}

// Pairs returns aligned sentence/translation pairs in sentence order.
// Sentences without a translation are skipped.
func (d *ParallelDocument) Pairs() []SentencePair {
	var pairs []SentencePair
	for _, k := range d.Text.Keys() {
		tr, ok := d.Translation[k]
		if !ok {
			continue
		}
		pairs = append(pairs, SentencePair{ID: d.ID, Number: k, Text: d.Text[k], Translation: tr})
	}
	return pairs
}
