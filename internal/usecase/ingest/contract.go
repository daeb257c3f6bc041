package ingest

import (
	"context"

	"github.com/m3360202/mathTest/internal/domain"
	domdoc "github.com/m3360202/mathTest/internal/domain/document"
)

// Extractor pulls plain text out of a spooled upload.
type Extractor interface {
	Extract(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error)
}

// DocumentInserter stores extracted text.
type DocumentInserter interface {
	Insert(ctx context.Context, content string, metadata domdoc.Metadata) (domdoc.Document, error)
}
