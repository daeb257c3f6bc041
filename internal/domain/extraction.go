package domain

import "context"

// KeyPrefix namespaces every key this service writes to a shared store.
const KeyPrefix = "mathdocs:"

// SpooledFile is an uploaded file spooled to local disk for the duration of one request.
type SpooledFile struct {
	Name     string // original client filename
	Path     string // temp file path
	Size     int64
	MIMEType string
}

// Extraction is the plain text pulled out of a document plus parser-reported details.
type Extraction struct {
	Content  string
	Metadata map[string]any
	Source   string // which extractor produced the text: "parser", "docx", "cache"
}

// Extractor is the text extraction contract shared between layers.
type Extractor interface {
	Extract(ctx context.Context, file SpooledFile) (Extraction, error)
}

// HealthChecker verifies extraction backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
