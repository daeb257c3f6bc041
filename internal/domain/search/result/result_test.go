package result

import (
	"encoding/json"
	"testing"

	"github.com/m3360202/mathTest/internal/domain/document"
)

func TestResult_Accessors(t *testing.T) {
	meta := document.Metadata{"filename": "a.docx"}
	r := New("doc-1", 0.75, "text", meta)

	if r.ID() != "doc-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Score() != 0.75 {
		t.Errorf("Score() = %v", r.Score())
	}
	if r.Distance() != 0.25 {
		t.Errorf("Distance() = %v, want 0.25", r.Distance())
	}
	if r.Content() != "text" {
		t.Errorf("Content() = %q", r.Content())
	}
	if r.Metadata()["filename"] != "a.docx" {
		t.Errorf("Metadata() = %v", r.Metadata())
	}
}

func TestToColumns_Aligned(t *testing.T) {
	results := []Result{
		New("a", 0.9, "first", document.Metadata{"n": 1}),
		New("b", 0.5, "second", document.Metadata{"n": 2}),
	}

	c := ToColumns(results)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	for i, r := range results {
		if c.IDs[i] != r.ID() || c.Documents[i] != r.Content() || c.Distances[i] != r.Distance() {
			t.Errorf("column %d misaligned: %+v", i, c)
		}
		if c.Metadatas[i]["n"] != r.Metadata()["n"] {
			t.Errorf("metadata %d misaligned", i)
		}
	}
}

func TestToColumns_EmptyEncodesArrays(t *testing.T) {
	data, err := json.Marshal(ToColumns(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"documents":[],"metadatas":[],"distances":[],"ids":[]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
