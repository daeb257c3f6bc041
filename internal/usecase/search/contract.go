package search

import (
	"context"

	domdoc "github.com/m3360202/mathTest/internal/domain/document"
)

// DocumentLister provides a consistent snapshot of the stored documents.
type DocumentLister interface {
	List(ctx context.Context) ([]domdoc.Document, error)
}
