package search

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	domdoc "github.com/m3360202/mathTest/internal/domain/document"
	"github.com/m3360202/mathTest/internal/domain/search/request"
)

type mockLister struct {
	docs []domdoc.Document
	err  error
}

func (m *mockLister) List(_ context.Context) ([]domdoc.Document, error) {
	return m.docs, m.err
}

func makeDocs(t *testing.T, contents map[string]string) []domdoc.Document {
	t.Helper()
	docs := make([]domdoc.Document, 0, len(contents))
	for id, content := range contents {
		d, err := domdoc.New(id, content, domdoc.Metadata{"filename": id + ".docx"}, time.Now())
		if err != nil {
			t.Fatalf("domdoc.New: %v", err)
		}
		docs = append(docs, d)
	}
	return docs
}

func makeRequest(t *testing.T, query string, limit int) *request.Request {
	t.Helper()
	req, err := request.New(query, limit, 0)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}

func TestSearch_EmptyStore(t *testing.T) {
	svc := New(&mockLister{})
	results, err := svc.Search(context.Background(), makeRequest(t, "anything", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
}

func TestSearch_CalculusScenario(t *testing.T) {
	docs := makeDocs(t, map[string]string{
		"calc": "微积分 是 数学 的 分支 微积分",
		"alg":  "线性代数 研究 向量 空间",
	})
	svc := New(&mockLister{docs: docs})

	results, err := svc.Search(context.Background(), makeRequest(t, "微积分", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID() != "calc" {
		t.Errorf("ID() = %q, want calc", results[0].ID())
	}
	want := 2 / math.Sqrt(6)
	if math.Abs(results[0].Score()-want) > 1e-9 {
		t.Errorf("Score() = %f, want %f", results[0].Score(), want)
	}
	if math.Abs(results[0].Distance()-(1-want)) > 1e-9 {
		t.Errorf("Distance() = %f, want %f", results[0].Distance(), 1-want)
	}
}

func TestSearch_OrderingAndTieBreak(t *testing.T) {
	docs := makeDocs(t, map[string]string{
		"b-exact":  "matrix determinant",
		"a-exact":  "matrix determinant",
		"c-weaker": "matrix determinant eigenvalue eigenvector trace rank",
	})
	svc := New(&mockLister{docs: docs})

	results, err := svc.Search(context.Background(), makeRequest(t, "matrix determinant", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []string{"a-exact", "b-exact", "c-weaker"}
	if len(results) != len(wantIDs) {
		t.Fatalf("expected %d results, got %d", len(wantIDs), len(results))
	}
	for i, id := range wantIDs {
		if results[i].ID() != id {
			t.Errorf("results[%d].ID() = %q, want %q", i, results[i].ID(), id)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score() > results[i-1].Score() {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}

func TestSearch_Limit(t *testing.T) {
	docs := makeDocs(t, map[string]string{
		"1": "integral", "2": "integral", "3": "integral", "4": "integral",
	})
	svc := New(&mockLister{docs: docs})

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"limit below count", 2, 2},
		{"limit above count", 10, 4},
		{"zero limit", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			results, err := svc.Search(context.Background(), makeRequest(t, "integral", tc.limit))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tc.want {
				t.Errorf("len(results) = %d, want %d", len(results), tc.want)
			}
		})
	}
}

func TestSearch_ThresholdIsStrict(t *testing.T) {
	// One shared token out of 100 distinct ones: score = 1/sqrt(100) = 0.1 exactly.
	content := "shared"
	for i := 0; i < 99; i++ {
		content += " w" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	docs := makeDocs(t, map[string]string{"edge": content})

	results, err := New(&mockLister{docs: docs}).Search(context.Background(), makeRequest(t, "shared", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("score equal to threshold must be excluded, got %d results", len(results))
	}

	results, err = New(&mockLister{docs: docs}).WithThreshold(0.05).
		Search(context.Background(), makeRequest(t, "shared", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result under a lower threshold, got %d", len(results))
	}
}

func TestSearch_QueryWithoutTokens(t *testing.T) {
	docs := makeDocs(t, map[string]string{"d": "anything at all"})
	results, err := New(&mockLister{docs: docs}).Search(context.Background(), makeRequest(t, "!!! ∫ ∑", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearch_ListError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&mockLister{err: boom}).Search(context.Background(), makeRequest(t, "q", 5))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestWithThreshold_IgnoresOutOfRange(t *testing.T) {
	svc := New(&mockLister{}).WithThreshold(1.5).WithThreshold(-1)
	if svc.threshold != DefaultThreshold {
		t.Errorf("threshold = %f, want %f", svc.threshold, DefaultThreshold)
	}
}
