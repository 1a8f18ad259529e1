package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/profile"
)

func livvi(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.Get("olo")
	require.NoError(t, err)
	return p
}

func TestIsValid(t *testing.T) {
	p := livvi(t)

	tests := []struct {
		name     string
		sentence string
		ratio    float64
		minLen   int
		expected bool
	}{
		{name: "native sentence", sentence: "Tämä on hyvä lause.", ratio: 1.0, minLen: 3, expected: true},
		{name: "ratio exactly at threshold", sentence: "Abc def ghi жзи.", ratio: 1.0, minLen: 3, expected: true},
		{name: "ratio above threshold", sentence: "Ab cd ef жзий.", ratio: 1.0, minLen: 3, expected: false},
		{name: "strict ratio", sentence: "Tämä on hyvä lause ж.", ratio: 0.0, minLen: 3, expected: false},
		{name: "no native letters", sentence: "Привет мир.", ratio: 1.0, minLen: 3, expected: false},
		{name: "digits only", sentence: "1917.", ratio: 1.0, minLen: 0, expected: false},
		{name: "empty", sentence: "", ratio: 1.0, minLen: 0, expected: false},
		{name: "too short", sentence: "Ab cd.", ratio: 1.0, minLen: 3, expected: false},
		{name: "zero minimum length", sentence: "Ab.", ratio: 1.0, minLen: 0, expected: true},
		{name: "runs split on digits", sentence: "a1b2c", ratio: 1.0, minLen: 3, expected: true},
		{name: "runs split on apostrophe", sentence: "Vepsän kel'", ratio: 1.0, minLen: 3, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValid(tt.sentence, p, tt.ratio, tt.minLen))
		})
	}
}

func TestPolicy(t *testing.T) {
	p := livvi(t)
	pol := DefaultPolicy()

	assert.Equal(t, 1.0, pol.MaxForeignRatio)
	assert.Equal(t, 3, pol.MinLength)

	got := Sentences([]string{"Tämä on hyvä lause.", "Lyhyt.", "Привет мир.", "Toine hyvä lause täs."}, p, pol)
	assert.Equal(t, []string{"Tämä on hyvä lause.", "Toine hyvä lause täs."}, got)

	assert.Empty(t, Sentences(nil, p, pol))
}

func TestDocument(t *testing.T) {
	p := livvi(t)
	pol := DefaultPolicy()

	tests := []struct {
		name     string
		doc      corpus.Document
		reason   Reason
		expected []string
	}{
		{
			name: "kept with invalid sentences removed",
			doc: corpus.Document{
				ID:        "1",
				Title:     "Aunus",
				Sentences: []string{"Aunus on linnu Karjalan tazavallas.", "Ok.", "Это русский текст."},
			},
			reason:   ReasonKept,
			expected: []string{"Aunus on linnu Karjalan tazavallas."},
		},
		{
			name: "title equal to stop phrase",
			doc: corpus.Document{
				ID:        "2",
				Title:     "Kirjalližusluvettelo",
				Sentences: []string{"Aunus on linnu Karjalan tazavallas."},
			},
			reason:   ReasonStopTitle,
			expected: []string{"Aunus on linnu Karjalan tazavallas."},
		},
		{
			name: "stop phrase inside title",
			doc: corpus.Document{
				ID:        "3",
				Title:     "Karjalan Kirjalližusluvettelo 2020",
				Sentences: []string{"Aunus on linnu Karjalan tazavallas."},
			},
			reason:   ReasonStopTitle,
			expected: []string{"Aunus on linnu Karjalan tazavallas."},
		},
		{
			name: "no valid sentences",
			doc: corpus.Document{
				ID:        "4",
				Title:     "Tyhjä",
				Sentences: []string{"Ok.", "Это русский текст."},
			},
			reason:   ReasonNoSentences,
			expected: []string{},
		},
		{
			name:     "no sentences at all",
			doc:      corpus.Document{ID: "5", Title: "Tyhjä"},
			reason:   ReasonNoSentences,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, reason := Apply(&tt.doc, p, pol)
			assert.Equal(t, tt.reason, reason)
			require.NotNil(t, out)
			assert.Equal(t, tt.expected, out.Sentences)

			kept, ok := Document(&tt.doc, p, pol)
			assert.Equal(t, tt.reason == ReasonKept, ok)

			if tt.reason != ReasonKept {
				assert.Nil(t, kept)
				return
			}

			assert.Equal(t, out, kept)
			assert.Equal(t, tt.doc.ID, out.ID)
			assert.Equal(t, tt.doc.Title, out.Title)
		})
	}
}

func TestDocument_DoesNotModifyInput(t *testing.T) {
	p := livvi(t)
	doc := &corpus.Document{ID: "1", Title: "Aunus", Sentences: []string{"Aunus on linnu Karjalan tazavallas.", "Ok."}}

	_, ok := Document(doc, p, DefaultPolicy())
	require.True(t, ok)
	assert.Len(t, doc.Sentences, 2)
}

func TestDocument_NoStopPhrases(t *testing.T) {
	p, err := profile.Get("vep")
	require.NoError(t, err)

	doc := &corpus.Document{ID: "1", Title: "Kirjalližusluvettelo", Sentences: []string{"Vepsän kel' om suomalaine kel'."}}
	_, ok := Document(doc, p, DefaultPolicy())
	assert.True(t, ok)
}

func TestCheck(t *testing.T) {
	p := livvi(t)

	assert.Equal(t, ReasonKept, Check("Aunus", []string{"x"}, p))
	assert.Equal(t, ReasonNoSentences, Check("Aunus", nil, p))
	assert.Equal(t, ReasonStopTitle, Check("Kirjalližusluvettelo", []string{"x"}, p))
}
