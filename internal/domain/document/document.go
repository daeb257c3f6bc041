package document

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m3360202/mathTest/internal/domain/fingerprint"
)

// Reserved metadata keys stamped by the store.
const (
	KeyTimestamp   = "timestamp"
	KeyFingerprint = "fingerprint"
	KeyFilename    = "filename"
)

// TimestampLayout is the ISO-8601 layout used for the timestamp metadata field.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// UnknownFileType groups documents without a usable filename extension.
const UnknownFileType = "unknown"

// Metadata is an open bag of caller-supplied fields plus the reserved
// timestamp and fingerprint keys.
type Metadata map[string]any

// Document is the stored document aggregate. Write-once: there are no setters.
type Document struct {
	id          string
	content     string
	metadata    Metadata
	fingerprint fingerprint.Fingerprint
	createdAt   time.Time
}

// New creates a Document, computing its fingerprint from content and stamping
// the reserved metadata keys. Caller metadata is copied; reserved keys win.
func New(id, content string, metadata Metadata, now time.Time) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}

	fp := fingerprint.Generate(content)
	now = now.UTC()

	meta := metadata.Clone()
	if meta == nil {
		meta = make(Metadata, 2)
	}
	meta[KeyTimestamp] = now.Format(TimestampLayout)
	meta[KeyFingerprint] = fp

	return Document{
		id:          id,
		content:     content,
		metadata:    meta,
		fingerprint: fp,
		createdAt:   now,
	}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Content returns the extracted text.
func (d *Document) Content() string { return d.content }

// Metadata returns a copy of the metadata bag including reserved keys.
// The stored document is unaffected by changes to the result.
func (d *Document) Metadata() Metadata {
	m := d.metadata.Clone()
	if m != nil {
		m[KeyFingerprint] = d.fingerprint.Clone()
	}
	return m
}

// Fingerprint returns a copy of the term-frequency vector computed at insertion.
func (d *Document) Fingerprint() fingerprint.Fingerprint { return d.fingerprint.Clone() }

// Similarity scores query against the document's fingerprint without copying it.
func (d *Document) Similarity(query fingerprint.Fingerprint) float64 {
	return fingerprint.Similarity(query, d.fingerprint)
}

// CreatedAt returns the insertion time.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// Timestamp returns the stamped timestamp metadata field.
func (d *Document) Timestamp() string {
	ts, _ := d.metadata[KeyTimestamp].(string)
	return ts
}

// Filename returns metadata.filename if it is a non-empty string.
func (d *Document) Filename() (string, bool) {
	name, ok := d.metadata[KeyFilename].(string)
	return name, ok && name != ""
}

// ContentLength returns the content length in characters.
func (d *Document) ContentLength() int { return utf8.RuneCountInString(d.content) }

// Preview returns the first n characters of content, with "..." appended when truncated.
func (d *Document) Preview(n int) string { return Preview(d.content, n) }

// FileType returns the extension-like grouping key of the document.
func (d *Document) FileType() string {
	name, _ := d.Filename()
	return FileType(name)
}

// FileType returns the substring after the last "." of filename.
// A filename without a dot groups under itself; an empty result is "unknown".
func FileType(filename string) string {
	if filename == "" {
		return UnknownFileType
	}
	ext := filename[strings.LastIndex(filename, ".")+1:]
	if ext == "" {
		return UnknownFileType
	}
	return ext
}

// Preview truncates s to n characters and appends "..." when anything was cut.
func Preview(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if cut == n {
			return s[:i] + "..."
		}
		cut++
	}
	return s
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
