package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/domain"
	"github.com/m3360202/mathTest/internal/metrics"
)

type mockExtractor struct {
	result domain.Extraction
	err    error
	calls  int
}

func (m *mockExtractor) Extract(_ context.Context, _ domain.SpooledFile) (domain.Extraction, error) {
	m.calls++
	return m.result, m.err
}

var testFile = domain.SpooledFile{Name: "lecture.docx", Path: "/tmp/lecture", Size: 42}

func TestFallback_PrimarySucceeds(t *testing.T) {
	primary := &mockExtractor{result: domain.Extraction{Content: "remote", Source: "parser"}}
	secondary := &mockExtractor{}

	ext, err := NewFallback(primary, secondary, zap.NewNop()).Extract(context.Background(), testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.Content != "remote" || secondary.calls != 0 {
		t.Errorf("unexpected result %+v, secondary calls %d", ext, secondary.calls)
	}
}

func TestFallback_PrimaryUnavailable(t *testing.T) {
	primary := &mockExtractor{err: domain.ErrParserUnavailable}
	secondary := &mockExtractor{result: domain.Extraction{Content: "local", Source: "docx"}}

	ext, err := NewFallback(primary, secondary, zap.NewNop()).Extract(context.Background(), testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.Content != "local" || ext.Source != "docx" {
		t.Errorf("unexpected result %+v", ext)
	}
}

func TestFallback_PrimaryRejectsFile(t *testing.T) {
	primary := &mockExtractor{err: domain.NewExtractionError(400, "只支持.docx格式的文件")}
	secondary := &mockExtractor{}

	_, err := NewFallback(primary, secondary, zap.NewNop()).Extract(context.Background(), testFile)
	var extErr *domain.ExtractionError
	if !errors.As(err, &extErr) || extErr.Status != 400 {
		t.Fatalf("expected parser rejection to pass through, got %v", err)
	}
	if secondary.calls != 0 {
		t.Error("secondary must not run when the parser rejected the file")
	}
}

func TestFallback_BothFail(t *testing.T) {
	primary := &mockExtractor{err: domain.ErrParserUnavailable}
	secondary := &mockExtractor{err: domain.NewExtractionError(0, "not a valid .docx archive")}

	_, err := NewFallback(primary, secondary, zap.NewNop()).Extract(context.Background(), testFile)
	if !errors.Is(err, domain.ErrExtractionFailed) || !errors.Is(err, domain.ErrParserUnavailable) {
		t.Fatalf("expected both causes in chain, got %v", err)
	}
}

func TestInstrumented_RecordsSuccess(t *testing.T) {
	inner := &mockExtractor{result: domain.Extraction{Content: "text", Source: "cache"}}
	before := testutil.ToFloat64(metrics.ExtractionRequestsTotal.WithLabelValues("cache", "success"))

	ext, err := NewInstrumented(inner).Extract(context.Background(), testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.Content != "text" {
		t.Errorf("Content = %q", ext.Content)
	}
	after := testutil.ToFloat64(metrics.ExtractionRequestsTotal.WithLabelValues("cache", "success"))
	if after-before != 1 {
		t.Errorf("success counter delta = %f, want 1", after-before)
	}
}

func TestInstrumented_RecordsError(t *testing.T) {
	inner := &mockExtractor{err: domain.ErrParserUnavailable}
	before := testutil.ToFloat64(metrics.ExtractionRequestsTotal.WithLabelValues("none", "error"))

	_, err := NewInstrumented(inner).Extract(context.Background(), testFile)
	if !errors.Is(err, domain.ErrParserUnavailable) {
		t.Fatalf("expected ErrParserUnavailable, got %v", err)
	}
	after := testutil.ToFloat64(metrics.ExtractionRequestsTotal.WithLabelValues("none", "error"))
	if after-before != 1 {
		t.Errorf("error counter delta = %f, want 1", after-before)
	}
}
