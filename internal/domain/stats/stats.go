// Package stats aggregates store-wide document statistics.
package stats

import (
	"math"

	"github.com/m3360202/mathTest/internal/domain/document"
)

// Stats summarises the stored documents.
type Stats struct {
	TotalDocuments       int            `json:"totalDocuments"`
	TotalStorage         int            `json:"totalStorage"`
	AverageContentLength int            `json:"averageContentLength"`
	FileTypes            map[string]int `json:"fileTypes"`
	UploadDates          []string       `json:"uploadDates"`
}

// Compute builds Stats over docs. Content lengths are measured in characters and
// the average is rounded to the nearest integer (0 for an empty store).
func Compute(docs []document.Document) Stats {
	s := Stats{
		TotalDocuments: len(docs),
		FileTypes:      make(map[string]int),
		UploadDates:    make([]string, 0, len(docs)),
	}

	for i := range docs {
		d := &docs[i]
		s.TotalStorage += d.ContentLength()
		s.FileTypes[d.FileType()]++
		if ts := d.Timestamp(); ts != "" {
			s.UploadDates = append(s.UploadDates, ts)
		}
	}

	if s.TotalDocuments > 0 {
		s.AverageContentLength = int(math.Round(float64(s.TotalStorage) / float64(s.TotalDocuments)))
	}
	return s
}
