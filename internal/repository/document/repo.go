package document

import (
	"context"
	"fmt"
	"sync"

	"github.com/m3360202/mathTest/internal/domain"
	domdoc "github.com/m3360202/mathTest/internal/domain/document"
)

// Repo is the in-process document store. Documents live for the process lifetime.
// A single RWMutex guards the collection: Insert takes the write lock, every read
// takes the read lock, so readers never observe a partially inserted document.
type Repo struct {
	mu    sync.RWMutex
	docs  map[string]domdoc.Document
	order []string
}

// New creates an empty repository.
func New() *Repo {
	return &Repo{docs: make(map[string]domdoc.Document)}
}

// Insert retains doc. IDs are write-once.
func (r *Repo) Insert(_ context.Context, doc *domdoc.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID()]; ok {
		return fmt.Errorf("insert %s: %w", doc.ID(), domain.ErrAlreadyExists)
	}
	r.docs[doc.ID()] = *doc
	r.order = append(r.order, doc.ID())
	return nil
}

// Get returns a document by ID.
func (r *Repo) Get(_ context.Context, id string) (domdoc.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// List returns a snapshot of all documents in insertion order.
func (r *Repo) List(_ context.Context) ([]domdoc.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domdoc.Document, len(r.order))
	for i, id := range r.order {
		out[i] = r.docs[id]
	}
	return out, nil
}

// Count returns the number of stored documents.
func (r *Repo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}
