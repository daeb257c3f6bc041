package document

import (
	"context"

	domdoc "github.com/m3360202/mathTest/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Insert(ctx context.Context, doc *domdoc.Document) error
	Get(ctx context.Context, id string) (domdoc.Document, error)
	List(ctx context.Context) ([]domdoc.Document, error)
	Count(ctx context.Context) (int, error)
}
