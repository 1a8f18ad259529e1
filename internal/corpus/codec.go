package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrMalformedRecord is returned when an input record cannot be decoded.
var ErrMalformedRecord = errors.New("malformed record")

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 64 * 1024 * 1024

// Indent is the indentation used for every corpus file.
const Indent = "    "

// ReadDocuments decodes raw documents from a JSON array or from JSON Lines.
// Records without an id are assigned a random one.
func ReadDocuments(r io.Reader) ([]*RawDocument, error) {
	docs, err := decodeRecords[RawDocument](r)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if doc.ID.IsZero() {
			doc.ID = NewDocumentID()
		}
	}

	return docs, nil
}

// ReadDocumentsFile reads raw documents from path.
func ReadDocumentsFile(path string) ([]*RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	docs, err := ReadDocuments(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return docs, nil
}

// ReadParallel decodes parallel documents from a JSON array or JSON Lines.
func ReadParallel(r io.Reader) ([]*ParallelDocument, error) {
	docs, err := decodeRecords[ParallelDocument](r)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if doc.ID.IsZero() {
			doc.ID = NewDocumentID()
		}
	}

	return docs, nil
}

// ReadParallelFile reads parallel documents from path.
func ReadParallelFile(path string) ([]*ParallelDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	docs, err := ReadParallel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return docs, nil
}

func decodeRecords[T any](r io.Reader) ([]*T, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if first == '[' {
		return decodeArray[T](br)
	}
	return decodeLines[T](br)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}

		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.Discard(1)
			continue
		case 0xEF:
			// UTF-8 byte order mark
			if bom, err := br.Peek(3); err == nil && bom[1] == 0xBB && bom[2] == 0xBF {
				_, _ = br.Discard(3)
				continue
			}
		}

		return b[0], nil
	}
}

func decodeArray[T any](r io.Reader) ([]*T, error) {
	dec := json.NewDecoder(r)

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	var out []*T
	for index := 0; dec.More(); index++ {
		rec := new(T)
		if err := dec.Decode(rec); err != nil {
			return nil, fmt.Errorf("%w: index %d: %v", ErrMalformedRecord, index, err)
		}
		out = append(out, rec)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: unterminated array: %v", ErrMalformedRecord, err)
	}

	return out, nil
}

func decodeLines[T any](r io.Reader) ([]*T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []*T
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		rec := new(T)
		if err := json.Unmarshal(data, rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		out = append(out, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return out, nil
}

// Encoder writes corpus JSON: non-ASCII and HTML characters unescaped,
// four-space indentation.
type Encoder struct {
	encoder *json.Encoder
}

// NewEncoder creates a corpus encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", Indent)

	return &Encoder{encoder: encoder}
}

// Encode writes v followed by a newline.
func (e *Encoder) Encode(v any) error {
	return e.encoder.Encode(v)
}

// WriteDocuments writes docs as one JSON array. An empty batch is written as
// an empty array.
func WriteDocuments(w io.Writer, docs []*Document) error {
	if docs == nil {
		docs = []*Document{}
	}
	return NewEncoder(w).Encode(docs)
}

// WriteFile encodes v to path, creating parent directories. The file is
// written to a temporary name first and renamed into place.
func WriteFile(path string, v any) error {
	return writeAtomic(path, func(w io.Writer) error {
		return NewEncoder(w).Encode(v)
	})
}

// WriteDocumentsFile writes docs to path as one JSON array.
func WriteDocumentsFile(path string, docs []*Document) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteDocuments(w, docs)
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
