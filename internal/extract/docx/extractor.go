// Package docx extracts plain text from Office Open XML word documents without
// calling the parser service.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/m3360202/mathTest/internal/domain"
)

// Source marks text produced by the local extractor.
const Source = "docx"

const (
	documentPart = "word/document.xml"
	// maxDocumentXML bounds the decompressed size of word/document.xml.
	maxDocumentXML = 256 << 20
)

// Ensure Extractor implements the interface.
var _ domain.Extractor = (*Extractor)(nil)

// Extractor reads body paragraphs and table rows from word/document.xml.
type Extractor struct{}

// New creates a local docx extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract implements domain.Extractor. Paragraphs come first, then table rows
// with non-empty cells joined by " | ", all separated by blank lines.
func (e *Extractor) Extract(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Extraction{}, fmt.Errorf("extract %s: %w", file.Name, err)
	}

	reader, err := zip.OpenReader(file.Path)
	if err != nil {
		return domain.Extraction{}, domain.NewExtractionError(0, "not a valid .docx archive")
	}
	defer reader.Close()

	part, err := reader.Open(documentPart)
	if err != nil {
		return domain.Extraction{}, domain.NewExtractionError(0, "missing "+documentPart)
	}
	defer part.Close()

	body, err := parseBody(io.LimitReader(part, maxDocumentXML))
	if err != nil {
		return domain.Extraction{}, domain.NewExtractionError(0, "malformed "+documentPart+": "+err.Error())
	}

	blocks := make([]string, 0, len(body.paragraphs)+len(body.rows))
	blocks = append(blocks, body.paragraphs...)
	blocks = append(blocks, body.rows...)
	content := strings.Join(blocks, "\n\n")

	return domain.Extraction{
		Content: content,
		Metadata: map[string]any{
			"paragraphs":     len(body.paragraphs),
			"table_rows":     len(body.rows),
			"content_length": utf8.RuneCountInString(content),
		},
		Source: Source,
	}, nil
}

// body is the text content of a document, in reading order per kind.
type body struct {
	paragraphs []string
	rows       []string
}

// parseBody walks the WordprocessingML token stream. Only top-level tables are
// rendered as rows; paragraphs of nested tables are skipped.
func parseBody(r io.Reader) (body, error) {
	var (
		out       body
		dec       = xml.NewDecoder(r)
		tblDepth  int
		inRun     bool
		inText    bool
		para      strings.Builder
		cellParas []string
		rowCells  []string
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return body{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "tr":
				if tblDepth == 1 {
					rowCells = rowCells[:0]
				}
			case "tc":
				if tblDepth == 1 {
					cellParas = cellParas[:0]
				}
			case "p":
				para.Reset()
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				if inRun {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					para.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				text := strings.TrimSpace(para.String())
				switch {
				case tblDepth == 0 && text != "":
					out.paragraphs = append(out.paragraphs, text)
				case tblDepth == 1:
					cellParas = append(cellParas, text)
				}
			case "tc":
				if tblDepth == 1 {
					if cell := strings.TrimSpace(strings.Join(cellParas, "\n")); cell != "" {
						rowCells = append(rowCells, cell)
					}
				}
			case "tr":
				if tblDepth == 1 && len(rowCells) > 0 {
					out.rows = append(out.rows, strings.Join(rowCells, " | "))
				}
			case "tbl":
				tblDepth--
			}
		}
	}
}
