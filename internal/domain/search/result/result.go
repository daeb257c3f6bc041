package result

import "github.com/m3360202/mathTest/internal/domain/document"

// Result is a single search hit.
type Result struct {
	id       string
	score    float64
	content  string
	metadata document.Metadata
}

// New creates a search result.
func New(id string, score float64, content string, metadata document.Metadata) Result {
	return Result{id: id, score: score, content: content, metadata: metadata}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Score returns the cosine similarity in [0, 1].
func (r *Result) Score() float64 { return r.score }

// Distance returns 1 - score; lower is closer.
func (r *Result) Distance() float64 { return 1 - r.score }

// Content returns the document content.
func (r *Result) Content() string { return r.content }

// Metadata returns the document metadata.
func (r *Result) Metadata() document.Metadata { return r.metadata }

// Columns is the index-aligned, column-oriented form of a result list, the shape
// nearest-neighbour stores return.
type Columns struct {
	Documents []string            `json:"documents"`
	Metadatas []document.Metadata `json:"metadatas"`
	Distances []float64           `json:"distances"`
	IDs       []string            `json:"ids"`
}

// ToColumns converts results into aligned columns. Empty input yields empty,
// non-nil slices.
func ToColumns(results []Result) Columns {
	c := Columns{
		Documents: make([]string, len(results)),
		Metadatas: make([]document.Metadata, len(results)),
		Distances: make([]float64, len(results)),
		IDs:       make([]string, len(results)),
	}
	for i := range results {
		r := &results[i]
		c.Documents[i] = r.Content()
		c.Metadatas[i] = r.Metadata()
		c.Distances[i] = r.Distance()
		c.IDs[i] = r.ID()
	}
	return c
}

// Len returns the number of aligned entries.
func (c Columns) Len() int { return len(c.IDs) }
