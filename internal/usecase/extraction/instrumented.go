package extraction

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/domain"
	"github.com/m3360202/mathTest/internal/logger"
	"github.com/m3360202/mathTest/internal/metrics"
)

// InstrumentedExtractor wraps an Extractor with request metrics and logging.
// It sits outermost in the chain so that cache hits are counted under source "cache".
type InstrumentedExtractor struct {
	inner Extractor
}

// NewInstrumented wraps an extractor with observability.
func NewInstrumented(inner Extractor) *InstrumentedExtractor {
	return &InstrumentedExtractor{inner: inner}
}

// Extract delegates to the inner extractor and records the outcome.
func (p *InstrumentedExtractor) Extract(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	ext, err := p.inner.Extract(ctx, file)

	duration := time.Since(start)

	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues("none", "error").Inc()
		log.Error("Extraction failed",
			zap.String("file", file.Name),
			zap.Int64("size", file.Size),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Extraction{}, fmt.Errorf("extract: %w", err)
	}

	source := ext.Source
	if source == "" {
		source = "unknown"
	}
	metrics.ExtractionRequestsTotal.WithLabelValues(source, "success").Inc()
	metrics.ExtractionDuration.WithLabelValues(source).Observe(duration.Seconds())

	log.Debug("Extraction completed",
		zap.String("file", file.Name),
		zap.String("source", source),
		zap.Duration("duration", duration),
		zap.Int("content_length", utf8.RuneCountInString(ext.Content)),
	)

	return ext, nil
}
