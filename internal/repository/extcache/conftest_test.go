package extcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/db"
	"github.com/m3360202/mathTest/internal/domain"
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

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, key string) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newCacheCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func newTestCachedExtractor(t *testing.T, inner *mockExtractor) (*CachedExtractor, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := newCacheCounter()
	ce := New(inner, ms, time.Hour, counter, zap.NewNop())
	return ce, ms, counter
}

func spoolFile(t *testing.T, data string) domain.SpooledFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.docx")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return domain.SpooledFile{Name: "lecture.docx", Path: path, Size: int64(len(data))}
}
