package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/domain"
	domdoc "github.com/m3360202/mathTest/internal/domain/document"
	"github.com/m3360202/mathTest/internal/domain/search/request"
	"github.com/m3360202/mathTest/internal/domain/search/result"
	"github.com/m3360202/mathTest/internal/logger"
	"github.com/m3360202/mathTest/internal/version"
	healthuc "github.com/m3360202/mathTest/internal/usecase/health"
	ingestuc "github.com/m3360202/mathTest/internal/usecase/ingest"
)

const (
	// UploadField is the multipart form field carrying the document.
	UploadField = "docxFile"

	// multipartOverhead leaves room for boundaries and part headers on top of the file limit.
	multipartOverhead = 1 << 20
	maxSearchBody     = 1 << 20

	msgQueryRequired = "Query is required and must be a string"
	msgUploaded      = "File processed and stored successfully"
)

// HealthCheck handles GET /health. It reports liveness only.
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    string(healthuc.CheckOK),
		Service:   ServiceName,
		Version:   version.Version,
		Timestamp: s.timestamp(),
	})
}

// Status handles GET /status.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, StatusResponse{
		Status:        string(report.Status),
		MainService:   string(healthuc.CheckOK),
		ParserService: string(report.Checks[healthuc.ComponentParser]),
		DocumentStore: string(report.Checks[healthuc.ComponentStore]),
		Cache:         string(report.Checks[healthuc.ComponentCache]),
		Timestamp:     s.timestamp(),
	})
}

// Upload handles POST /upload. The file part is streamed into the ingest
// service without buffering the whole form.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrNoFile, err), ErrorResponse{})
		return
	}

	part, err := nextFilePart(mr, UploadField)
	if err != nil {
		s.handleDomainError(w, r, err, ErrorResponse{})
		return
	}
	defer part.Close()

	filename := part.FileName()
	res, err := s.ingest.Ingest(r.Context(), ingestuc.Upload{
		Filename: filename,
		Size:     -1,
		MIMEType: part.Header.Get("Content-Type"),
		Body:     part,
	})
	if err != nil {
		s.handleDomainError(w, r, bodyLimitError(err), ErrorResponse{Filename: filename})
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: msgUploaded,
		Data: UploadData{
			DocumentID:     res.DocumentID,
			Filename:       res.Filename,
			ContentPreview: domdoc.Preview(res.Content, uploadPreviewLen),
			ContentLength:  intMeta(res.Metadata, ingestuc.MetaContentLength),
			Metadata:       res.Metadata,
		},
	})
}

// nextFilePart advances to the first file part named field, skipping other
// fields. A malformed or oversized form is reported as a validation error.
func nextFilePart(mr *multipart.Reader, field string) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNoFile
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, bodyLimitError(err)
			}
			return nil, fmt.Errorf("read multipart: %w: %w", domain.ErrNoFile, err)
		}
		if part.FormName() == field && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

// bodyLimitError maps a request body overrun to ErrFileTooLarge.
func bodyLimitError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) && !errors.Is(err, domain.ErrFileTooLarge) {
		return fmt.Errorf("request body exceeds %d bytes: %w", maxErr.Limit, domain.ErrFileTooLarge)
	}
	return err
}

func intMeta(m domdoc.Metadata, key string) int {
	if v, ok := m[key].(int); ok {
		return v
	}
	return 0
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	query, ok := body.Query.(string)
	if !ok || strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidQuery, msgQueryRequired)
		return
	}

	limit := s.opts.DefaultLimit
	if body.Limit != nil {
		limit = *body.Limit
	}

	req, err := request.New(query, limit, s.opts.MaxLimit)
	if err != nil {
		s.handleDomainError(w, r, err, ErrorResponse{})
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err, ErrorResponse{})
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Success:   true,
		Query:     query,
		Results:   result.ToColumns(results),
		Timestamp: s.timestamp(),
	})
}

// ListDocuments handles GET /documents. An optional limit keeps the first
// documents in insertion order; totalDocuments always counts the whole store.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter limit")
		return
	}
	if limit != nil && *limit < 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "limit must be non-negative")
		return
	}

	docs, err := s.documents.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, ErrorResponse{})
		return
	}

	total := len(docs)
	if limit != nil && *limit < total {
		docs = docs[:*limit]
	}

	items := make([]DocumentSummary, len(docs))
	for i := range docs {
		items[i] = documentSummary(&docs[i])
	}

	writeJSON(w, http.StatusOK, DocumentListResponse{
		Success:        true,
		TotalDocuments: total,
		Documents:      items,
		Timestamp:      s.timestamp(),
	})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err, ErrorResponse{ID: id})
		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		Success: true,
		Document: DocumentBody{
			ID:       doc.ID(),
			Content:  doc.Content(),
			Metadata: doc.Metadata(),
		},
	})
}

// Stats handles GET /database/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.documents.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err, ErrorResponse{})
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		Success:    true,
		Statistics: st,
		Timestamp:  s.timestamp(),
	})
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l, ok := logger.Lookup(r.Context()); ok {
		return l
	}
	return s.logger
}
