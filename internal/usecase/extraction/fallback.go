package extraction

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/domain"
)

// FallbackExtractor tries the primary extractor and switches to the secondary
// only when the primary could not be reached. A primary that answered with a
// rejection is final.
type FallbackExtractor struct {
	primary   Extractor
	secondary Extractor
	logger    *zap.Logger
}

// NewFallback wraps primary with a secondary used when primary is unavailable.
func NewFallback(primary, secondary Extractor, logger *zap.Logger) *FallbackExtractor {
	return &FallbackExtractor{primary: primary, secondary: secondary, logger: logger}
}

// Extract implements domain.Extractor.
func (f *FallbackExtractor) Extract(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error) {
	ext, err := f.primary.Extract(ctx, file)
	if err == nil {
		return ext, nil
	}
	if !errors.Is(err, domain.ErrParserUnavailable) {
		return domain.Extraction{}, err
	}

	f.logger.Warn("Parser unavailable, using local extractor",
		zap.String("file", file.Name),
		zap.Error(err),
	)

	ext, ferr := f.secondary.Extract(ctx, file)
	if ferr != nil {
		return domain.Extraction{}, fmt.Errorf("local fallback after %w: %w", err, ferr)
	}
	return ext, nil
}
