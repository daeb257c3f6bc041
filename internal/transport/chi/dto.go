package chi

import (
	domdoc "github.com/m3360202/mathTest/internal/domain/document"
	"github.com/m3360202/mathTest/internal/domain/search/result"
	"github.com/m3360202/mathTest/internal/domain/stats"
)

// ErrorCode is a machine-readable error classifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeDocumentNotFound  ErrorCode = "document_not_found"
	ErrorCodeMethodNotAllowed  ErrorCode = "method_not_allowed"
	ErrorCodeNoFile            ErrorCode = "no_file"
	ErrorCodeUnsupportedFile   ErrorCode = "unsupported_file"
	ErrorCodeFileTooLarge      ErrorCode = "file_too_large"
	ErrorCodeInvalidQuery      ErrorCode = "invalid_query"
	ErrorCodeExtractionFailed  ErrorCode = "extraction_failed"
	ErrorCodeParserUnavailable ErrorCode = "parser_unavailable"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error"`
	Code     ErrorCode `json:"code"`
	ID       string    `json:"id,omitempty"`
	Filename string    `json:"filename,omitempty"`
}

// HealthResponse is the liveness body.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// StatusResponse reports per-component health.
type StatusResponse struct {
	Status        string `json:"status"`
	MainService   string `json:"mainService"`
	ParserService string `json:"parserService"`
	DocumentStore string `json:"documentStore"`
	Cache         string `json:"cache,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// UploadData describes a stored upload.
type UploadData struct {
	DocumentID     string          `json:"documentId"`
	Filename       string          `json:"filename"`
	ContentPreview string          `json:"contentPreview"`
	ContentLength  int             `json:"contentLength"`
	Metadata       domdoc.Metadata `json:"metadata"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    UploadData `json:"data"`
}

// SearchRequest is the body of POST /search. Query is untyped so that a
// non-string value can be rejected with a precise message.
type SearchRequest struct {
	Query any  `json:"query"`
	Limit *int `json:"limit,omitempty"`
}

// SearchResponse is returned by POST /search.
type SearchResponse struct {
	Success   bool           `json:"success"`
	Query     string         `json:"query"`
	Results   result.Columns `json:"results"`
	Timestamp string         `json:"timestamp"`
}

// DocumentSummary is one entry of the document listing.
type DocumentSummary struct {
	ID             string          `json:"id"`
	Filename       string          `json:"filename,omitempty"`
	UploadedAt     string          `json:"uploadedAt"`
	ContentLength  int             `json:"contentLength"`
	ContentPreview string          `json:"contentPreview"`
	Metadata       domdoc.Metadata `json:"metadata"`
}

// DocumentListResponse is returned by GET /documents.
type DocumentListResponse struct {
	Success        bool              `json:"success"`
	TotalDocuments int               `json:"totalDocuments"`
	Documents      []DocumentSummary `json:"documents"`
	Timestamp      string            `json:"timestamp"`
}

// DocumentBody is the full stored document.
type DocumentBody struct {
	ID       string          `json:"id"`
	Content  string          `json:"content"`
	Metadata domdoc.Metadata `json:"metadata"`
}

// DocumentResponse is returned by GET /documents/{id}.
type DocumentResponse struct {
	Success  bool         `json:"success"`
	Document DocumentBody `json:"document"`
}

// StatsResponse is returned by GET /database/stats.
type StatsResponse struct {
	Success    bool        `json:"success"`
	Statistics stats.Stats `json:"statistics"`
	Timestamp  string      `json:"timestamp"`
}

const (
	uploadPreviewLen = 200
	listPreviewLen   = 100
)

func documentSummary(d *domdoc.Document) DocumentSummary {
	name, _ := d.Filename()
	return DocumentSummary{
		ID:             d.ID(),
		Filename:       name,
		UploadedAt:     d.Timestamp(),
		ContentLength:  d.ContentLength(),
		ContentPreview: d.Preview(listPreviewLen),
		Metadata:       d.Metadata(),
	}
}
