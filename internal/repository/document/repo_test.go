package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m3360202/mathTest/internal/domain"
	domdoc "github.com/m3360202/mathTest/internal/domain/document"
)

func testDocument(t *testing.T, id, content string) domdoc.Document {
	t.Helper()
	doc, err := domdoc.New(id, content, domdoc.Metadata{"filename": id + ".docx"}, time.Now())
	if err != nil {
		t.Fatalf("domdoc.New: %v", err)
	}
	return doc
}

func TestInsertGet(t *testing.T) {
	repo := New()
	ctx := context.Background()
	doc := testDocument(t, "doc-1", "limits and derivatives")

	if err := repo.Insert(ctx, &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content() != "limits and derivatives" {
		t.Errorf("Content() = %q", got.Content())
	}
}

func TestInsert_DuplicateID(t *testing.T) {
	repo := New()
	ctx := context.Background()
	doc := testDocument(t, "doc-1", "first")

	if err := repo.Insert(ctx, &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := testDocument(t, "doc-1", "second")
	err := repo.Insert(ctx, &dup)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, _ := repo.Get(ctx, "doc-1")
	if got.Content() != "first" {
		t.Errorf("duplicate insert overwrote document: %q", got.Content())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New()
	_, err := repo.Get(context.Background(), "nonexistent-id")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestList_InsertionOrder(t *testing.T) {
	repo := New()
	ctx := context.Background()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		doc := testDocument(t, id, "content "+id)
		if err := repo.Insert(ctx, &doc); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	docs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != len(ids) {
		t.Fatalf("expected %d docs, got %d", len(ids), len(docs))
	}
	for i, id := range ids {
		if docs[i].ID() != id {
			t.Errorf("docs[%d].ID() = %q, want %q", i, docs[i].ID(), id)
		}
	}

	count, _ := repo.Count(ctx)
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestList_EmptyIsNonNil(t *testing.T) {
	docs, err := New().List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("List() = %v, want empty slice", docs)
	}
}

func TestConcurrentInsertAndRead(t *testing.T) {
	repo := New()
	ctx := context.Background()

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				doc := testDocument(t, fmt.Sprintf("w%d-%d", w, i), "content")
				if err := repo.Insert(ctx, &doc); err != nil {
					t.Errorf("insert: %v", err)
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				docs, _ := repo.List(ctx)
				for _, d := range docs {
					if d.ID() == "" {
						t.Error("observed a zero-value document")
					}
				}
			}
		}()
	}
	wg.Wait()

	count, _ := repo.Count(ctx)
	if count != writers*perWriter {
		t.Errorf("Count() = %d, want %d", count, writers*perWriter)
	}
}
