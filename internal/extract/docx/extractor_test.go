package docx

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m3360202/mathTest/internal/domain"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func writeDocx(t *testing.T, parts map[string]string) domain.SpooledFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
	return domain.SpooledFile{Name: "test.docx", Path: path}
}

func document(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`
}

func TestExtract_ParagraphsAndTables(t *testing.T) {
	body := `<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>第一章</w:t></w:r><w:r><w:t xml:space="preserve"> 函数与极限</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>   </w:t></w:r></w:p>` +
		`<w:tbl>` +
		`<w:tr><w:tc><w:p><w:r><w:t>公式</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>说明</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p/></w:tc><w:tc><w:p/></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p><w:r><w:t>dy/dx</w:t></w:r></w:p></w:tc><w:tc><w:p/></w:tc><w:tc><w:p><w:r><w:t>导数</w:t></w:r></w:p></w:tc></w:tr>` +
		`</w:tbl>` +
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>`

	file := writeDocx(t, map[string]string{"word/document.xml": document(body)})

	ext, err := New().Extract(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "第一章 函数与极限\n\na\tb\n\n公式 | 说明\n\ndy/dx | 导数"
	if ext.Content != want {
		t.Errorf("Content =\n%q\nwant\n%q", ext.Content, want)
	}
	if ext.Source != Source {
		t.Errorf("Source = %q", ext.Source)
	}
	if ext.Metadata["paragraphs"] != 2 || ext.Metadata["table_rows"] != 2 {
		t.Errorf("Metadata = %v", ext.Metadata)
	}
}

func TestExtract_NestedTableSkipped(t *testing.T) {
	body := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>outer</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`</w:tc></w:tr></w:tbl>`
	file := writeDocx(t, map[string]string{"word/document.xml": document(body)})

	ext, err := New().Extract(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.Content != "outer" {
		t.Errorf("Content = %q, want outer", ext.Content)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	file := writeDocx(t, map[string]string{"word/document.xml": document("")})
	ext, err := New().Extract(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.Content != "" {
		t.Errorf("Content = %q, want empty", ext.Content)
	}
}

func TestExtract_Errors(t *testing.T) {
	notZip := filepath.Join(t.TempDir(), "plain.docx")
	if err := os.WriteFile(notZip, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		file domain.SpooledFile
	}{
		{"not a zip", domain.SpooledFile{Name: "plain.docx", Path: notZip}},
		{"missing document part", writeDocx(t, map[string]string{"docProps/core.xml": "<x/>"})},
		{"malformed xml", writeDocx(t, map[string]string{"word/document.xml": "<w:document><w:body>"})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().Extract(context.Background(), tc.file)
			if !errors.Is(err, domain.ErrExtractionFailed) {
				t.Fatalf("expected ErrExtractionFailed, got %v", err)
			}
		})
	}
}

func TestExtract_CanceledContext(t *testing.T) {
	file := writeDocx(t, map[string]string{"word/document.xml": document("")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Extract(ctx, file); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
