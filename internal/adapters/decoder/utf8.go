package decoder

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/baditaflorin/go_document_similarity/internal/core/domain"
	"github.com/baditaflorin/go_document_similarity/internal/ports"
)

// Decoder turns raw uploads into documents, reporting failures per document.
type Decoder struct {
	logger     ports.Logger
	extensions []string
}

// New creates a decoder. When extensions is non-empty only names ending in
// one of them (case-insensitive, e.g. ".txt") are accepted.
func New(logger ports.Logger, extensions ...string) *Decoder {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &Decoder{logger: logger, extensions: exts}
}

// Decode validates raw as UTF-8 text, dropping a leading byte order mark.
func (d *Decoder) Decode(name string, raw []byte) (domain.Document, error) {
	if !d.accepts(name) {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(name))
	}
	if !utf8.Valid(raw) {
		return domain.Document{}, &domain.EncodingError{Name: name, Offset: invalidOffset(raw)}
	}
	text, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return domain.Document{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return domain.Document{Name: name, Content: string(text)}, nil
}

// DecodeAll decodes every upload. Failed or duplicate-named documents are
// excluded; the rest keep their input order.
func (d *Decoder) DecodeAll(raws []domain.RawDocument) ([]domain.Document, []domain.DocumentError) {
	docs := make([]domain.Document, 0, len(raws))
	var failures []domain.DocumentError
	seen := make(map[string]struct{}, len(raws))

	for _, raw := range raws {
		if _, dup := seen[raw.Name]; dup {
			failures = append(failures, domain.DocumentError{Name: raw.Name, Err: domain.ErrDuplicateName})
			d.logger.Warn("Skipping duplicate document", "name", raw.Name)
			continue
		}
		doc, err := d.Decode(raw.Name, raw.Data)
		if err != nil {
			failures = append(failures, domain.DocumentError{Name: raw.Name, Err: err})
			d.logger.Warn("Skipping unreadable document", "name", raw.Name, "error", err)
			continue
		}
		seen[raw.Name] = struct{}{}
		docs = append(docs, doc)
	}

	d.logger.Debug("Decoded documents",
		"accepted", len(docs),
		"failed", len(failures),
	)
	return docs, failures
}

func (d *Decoder) accepts(name string) bool {
	if len(d.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range d.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func invalidOffset(raw []byte) int {
	offset := 0
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			return offset
		}
		raw = raw[size:]
		offset += size
	}
	return offset
}
