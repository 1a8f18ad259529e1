package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID_Unmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected DocumentID
		wantErr  bool
	}{
		{name: "string", input: `"Lyydilöin_kieli"`, expected: "Lyydilöin_kieli"},
		{name: "integer", input: `1917`, expected: "1917"},
		{name: "null", input: `null`, expected: ""},
		{name: "boolean", input: `true`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id DocumentID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestDocumentID_MarshalsAsString(t *testing.T) {
	var raw RawDocument
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "title": "T"}`), &raw))

	out, err := json.Marshal(NewDocument(&raw, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "42", "url": "", "title": "T", "sentences": []}`, string(out))
}

func TestRawDocument_Text(t *testing.T) {
	withText := RawDocument{RawText: "Body.", Paragraphs: []string{"ignored"}}
	assert.Equal(t, "Body.", withText.Text())

	withParagraphs := RawDocument{Paragraphs: []string{"First.", "Kirjalližuttu", "Source."}}
	assert.Equal(t, "First.\n\nKirjalližuttu\n\nSource.", withParagraphs.Text())

	assert.Equal(t, "", (&RawDocument{}).Text())
}

func TestReadDocuments_Array(t *testing.T) {
	input := `
	[
		{"id": "a", "url": "https://olo.wikipedia.org/wiki/A", "title": "A", "raw_text": "Text A."},
		{"id": 7, "title": "B", "raw_text": "Text B.", "extra": true}
	]`

	docs, err := ReadDocuments(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, DocumentID("a"), docs[0].ID)
	assert.Equal(t, "https://olo.wikipedia.org/wiki/A", docs[0].URL)
	assert.Equal(t, "Text A.", docs[0].RawText)
	assert.Equal(t, DocumentID("7"), docs[1].ID)
}

func TestReadDocuments_Lines(t *testing.T) {
	input := "{\"id\": \"a\", \"title\": \"A\", \"raw_text\": \"x\"}\n\n" +
		"{\"title\": \"B\", \"paragraphs\": [\"p1\", \"p2\"]}\n"

	docs, err := ReadDocuments(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, DocumentID("a"), docs[0].ID)
	assert.Equal(t, "p1\n\np2", docs[1].Text())

	_, err = uuid.Parse(docs[1].ID.String())
	assert.NoError(t, err, "missing id should be replaced with a uuid")
}

func TestReadDocuments_ByteOrderMark(t *testing.T) {
	docs, err := ReadDocuments(strings.NewReader("\ufeff[{\"id\": \"a\"}]"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, DocumentID("a"), docs[0].ID)
}

func TestReadDocuments_Empty(t *testing.T) {
	docs, err := ReadDocuments(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = ReadDocuments(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadDocuments_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		location string
	}{
		{
			name:     "bad line",
			input:    "{\"id\": \"a\"}\n{\"id\": \n",
			location: "line 2",
		},
		{
			name:     "bad array element",
			input:    `[{"id": "a"}, {"title": 5}]`,
			location: "index 1",
		},
		{
			name:     "unterminated array",
			input:    `[{"id": "a"}`,
			location: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocuments(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord))
			assert.Contains(t, err.Error(), tt.location)
		})
	}
}

func TestWriteDocuments_Format(t *testing.T) {
	docs := []*Document{{
		ID:        "1",
		URL:       "https://vep.wikipedia.org/wiki/Vepsän_kel'",
		Title:     "Vepsän kel' <&>",
		Sentences: []string{"Vepsän kel' om baltijan-suomalaižiden kelʹiden joukos."},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, docs))

	out := buf.String()
	assert.Contains(t, out, "\n    {\n        \"id\": \"1\",")
	assert.Contains(t, out, "Vepsän kel' <&>")
	assert.Contains(t, out, "baltijan-suomalaižiden")
	assert.NotContains(t, out, `\u`)
}

func TestWriteDocuments_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteDocumentsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "olo.json")
	docs := []*Document{{ID: "a", Title: "A", Sentences: []string{"Yksi lause on täs."}}}

	require.NoError(t, WriteDocumentsFile(path, docs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []*Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, docs, decoded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should not remain")
}

func TestReadParallel(t *testing.T) {
	input := `[{
		"id": 12,
		"dialect": "Central Veps",
		"corpus": "dialectal",
		"genre": "tale",
		"title": "Kut ma elin",
		"mono": false,
		"text": {"2": "Toine.", "1": "Ezmäine."},
		"translation": {"1": "First.", "2": "Second."}
	}]`

	docs, err := ReadParallel(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, DocumentID("12"), doc.ID)
	assert.Equal(t, []int{1, 2}, doc.Text.Keys())
	assert.Equal(t, []SentencePair{
		{ID: "12", Number: 1, Text: "Ezmäine.", Translation: "First."},
		{ID: "12", Number: 2, Text: "Toine.", Translation: "Second."},
	}, doc.Pairs())
}

func TestParallelDocument_PairsSkipsUntranslated(t *testing.T) {
	doc := ParallelDocument{
		ID:          "7",
		Mono:        true,
		Text:        SentenceMap{1: "A.", 2: "B."},
		Translation: SentenceMap{2: "b."},
	}
	assert.Equal(t, []SentencePair{{ID: "7", Number: 2, Text: "B.", Translation: "b."}}, doc.Pairs())
}

func TestReadDocumentsFile_Missing(t *testing.T) {
	_, err := ReadDocumentsFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
