package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/m3360202/mathTest/internal/domain/fingerprint"
	"github.com/m3360202/mathTest/internal/domain/search/request"
	"github.com/m3360202/mathTest/internal/domain/search/result"
	"github.com/m3360202/mathTest/internal/metrics"
)

// DefaultThreshold is the minimum similarity (exclusive) a document needs to be returned.
const DefaultThreshold = 0.1

// Service ranks stored documents against a query by fingerprint similarity.
type Service struct {
	docs      DocumentLister
	threshold float64
}

// New creates a search service.
func New(docs DocumentLister) *Service {
	return &Service{docs: docs, threshold: DefaultThreshold}
}

// WithThreshold overrides the relevance threshold. Values outside [0,1) are ignored.
func (s *Service) WithThreshold(threshold float64) *Service {
	if threshold >= 0 && threshold < 1 {
		s.threshold = threshold
	}
	return s
}

// Search scores every stored document against the query, keeps those strictly above
// the threshold and returns at most req.Limit() of them, best first. Equal scores are
// ordered by document ID.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()

	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	query := fingerprint.Generate(req.Query())

	results := make([]result.Result, 0, min(len(docs), req.Limit()))
	if len(query) > 0 && req.Limit() > 0 {
		for i := range docs {
			score := docs[i].Similarity(query)
			if score <= s.threshold {
				continue
			}
			results = append(results, result.New(docs[i].ID(), score, docs[i].Content(), docs[i].Metadata()))
		}

		slices.SortFunc(results, func(a, b result.Result) int {
			if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
				return c
			}
			return cmp.Compare(a.ID(), b.ID())
		})

		if len(results) > req.Limit() {
			results = results[:req.Limit()]
		}
	}

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(results)))
	return results, nil
}
