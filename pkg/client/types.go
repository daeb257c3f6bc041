package client

// Metadata is the free-form metadata attached to a document.
type Metadata map[string]any

// UploadResult describes a stored upload.
type UploadResult struct {
	DocumentID     string   `json:"documentId"`
	Filename       string   `json:"filename"`
	ContentPreview string   `json:"contentPreview"`
	ContentLength  int      `json:"contentLength"`
	Metadata       Metadata `json:"metadata"`
}

// SearchHit is one ranked match. Score is the cosine similarity; Distance is 1 - Score.
type SearchHit struct {
	ID       string
	Content  string
	Metadata Metadata
	Distance float64
	Score    float64
}

// SearchResult holds the hits for a query, best first.
type SearchResult struct {
	Query     string
	Hits      []SearchHit
	Timestamp string
}

// DocumentSummary is a document entry in a listing.
type DocumentSummary struct {
	ID             string   `json:"id"`
	Filename       string   `json:"filename"`
	UploadedAt     string   `json:"uploadedAt"`
	ContentLength  int      `json:"contentLength"`
	ContentPreview string   `json:"contentPreview"`
	Metadata       Metadata `json:"metadata"`
}

// DocumentList is a page of documents in insertion order.
type DocumentList struct {
	TotalDocuments int               `json:"totalDocuments"`
	Documents      []DocumentSummary `json:"documents"`
	Timestamp      string            `json:"timestamp"`
}

// Document is a full stored document.
type Document struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Stats summarises the store.
type Stats struct {
	TotalDocuments       int            `json:"totalDocuments"`
	TotalStorage         int            `json:"totalStorage"`
	AverageContentLength int            `json:"averageContentLength"`
	FileTypes            map[string]int `json:"fileTypes"`
	UploadDates          []string       `json:"uploadDates"`
}

// Health is the liveness report.
type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Status is the per-component health report. Status is "ok" or "degraded".
type Status struct {
	Status        string `json:"status"`
	MainService   string `json:"mainService"`
	ParserService string `json:"parserService"`
	DocumentStore string `json:"documentStore"`
	Cache         string `json:"cache,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// Healthy reports whether no component is failing.
func (s *Status) Healthy() bool { return s.Status == "ok" }

type searchColumns struct {
	Documents []string   `json:"documents"`
	Metadatas []Metadata `json:"metadatas"`
	Distances []float64  `json:"distances"`
	IDs       []string   `json:"ids"`
}

// hits zips the aligned columns into rows. Columns shorter than IDs leave
// zero values.
func (c *searchColumns) hits() []SearchHit {
	out := make([]SearchHit, len(c.IDs))
	for i, id := range c.IDs {
		h := SearchHit{ID: id}
		if i < len(c.Documents) {
			h.Content = c.Documents[i]
		}
		if i < len(c.Metadatas) {
			h.Metadata = c.Metadatas[i]
		}
		if i < len(c.Distances) {
			h.Distance = c.Distances[i]
			h.Score = 1 - c.Distances[i]
		}
		out[i] = h
	}
	return out
}
