package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domdoc "github.com/m3360202/mathTest/internal/domain/document"
	"github.com/m3360202/mathTest/internal/domain/stats"
	"github.com/m3360202/mathTest/internal/metrics"
)

// Service handles document insertion, lookup, enumeration and statistics.
type Service struct {
	repo  Repository
	newID func() string
	now   func() time.Time
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{
		repo:  repo,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// WithClock overrides the ID generator and clock. Used by tests.
func (s *Service) WithClock(newID func() string, now func() time.Time) *Service {
	if newID != nil {
		s.newID = newID
	}
	if now != nil {
		s.now = now
	}
	return s
}

// Insert fingerprints content and stores it under a fresh ID.
// The caller's metadata is copied; timestamp and fingerprint keys are stamped by the store.
func (s *Service) Insert(ctx context.Context, content string, metadata domdoc.Metadata) (domdoc.Document, error) {
	doc, err := domdoc.New(s.newID(), content, metadata, s.now())
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("build document: %w", err)
	}

	if err := s.repo.Insert(ctx, &doc); err != nil {
		return domdoc.Document{}, fmt.Errorf("insert document: %w", err)
	}

	if n, err := s.repo.Count(ctx); err == nil {
		metrics.DocumentsTotal.Set(float64(n))
	}
	return doc, nil
}

// Get retrieves a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns every stored document in insertion order.
func (s *Service) List(ctx context.Context) ([]domdoc.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Stats aggregates totals, file types and upload dates over the current collection.
func (s *Service) Stats(ctx context.Context) (stats.Stats, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return stats.Stats{}, fmt.Errorf("list documents: %w", err)
	}
	return stats.Compute(docs), nil
}
