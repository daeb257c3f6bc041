package extraction

import (
	"context"

	"github.com/m3360202/mathTest/internal/domain"
)

// Extractor is the local alias of the shared extraction contract.
type Extractor interface {
	Extract(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error)
}
