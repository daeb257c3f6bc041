package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/domain"
	domdoc "github.com/m3360202/mathTest/internal/domain/document"
	"github.com/m3360202/mathTest/internal/domain/search/request"
	"github.com/m3360202/mathTest/internal/metrics"
	documentuc "github.com/m3360202/mathTest/internal/usecase/document"
	healthuc "github.com/m3360202/mathTest/internal/usecase/health"
	ingestuc "github.com/m3360202/mathTest/internal/usecase/ingest"
	searchuc "github.com/m3360202/mathTest/internal/usecase/search"
)

// ServiceName is reported by GET /health.
const ServiceName = "mathdocs"

// Options tunes request limits and authentication.
type Options struct {
	DefaultLimit   int
	MaxLimit       int
	MaxUploadBytes int64
	APIKeys        []string
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, body ErrorResponse) bool

// Server serves the document HTTP API.
type Server struct {
	documents     *documentuc.Service
	search        *searchuc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	opts          Options
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	search *searchuc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts Options,
) *Server {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = request.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = request.MaxLimit
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = ingestuc.DefaultMaxFileSize
	}
	s := &Server{
		documents: documents,
		search:    search,
		ingest:    ingest,
		health:    health,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
	s.errorHandlers = []errorHandler{
		extractionErrorHandler,
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery),
		sentinelHandler(domain.ErrNoFile, http.StatusBadRequest, ErrorCodeNoFile),
		sentinelHandler(domain.ErrUnsupportedFile, http.StatusBadRequest, ErrorCodeUnsupportedFile),
		sentinelHandler(domain.ErrFileTooLarge, http.StatusBadRequest, ErrorCodeFileTooLarge),
		sentinelHandler(domain.ErrParserUnavailable, http.StatusBadGateway, ErrorCodeParserUnavailable),
	}
	return s
}

// Handler builds the router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(CORSMiddleware())
	r.Use(BearerAuthMiddleware(s.opts.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/status", s.Status)
	r.Get("/metrics", s.Metrics)
	r.Post("/upload", s.Upload)
	r.Post("/search", s.Search)
	r.Get("/documents", s.ListDocuments)
	r.Get("/documents/{id}", s.GetDocument)
	r.Get("/database/stats", s.Stats)
	return r
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(domdoc.TimestampLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// clientMessages maps sentinels to the text shown to API clients.
var clientMessages = []struct {
	sentinel error
	message  string
}{
	{domain.ErrDocumentNotFound, "Document not found"},
	{domain.ErrInvalidQuery, "Invalid search query"},
	{domain.ErrNoFile, "No file uploaded"},
	{domain.ErrUnsupportedFile, "Only .docx files are allowed"},
	{domain.ErrFileTooLarge, "File size too large"},
	{domain.ErrParserUnavailable, "Parser service unavailable"},
	{domain.ErrExtractionFailed, "Error processing file"},
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, m := range clientMessages {
		if errors.Is(err, m.sentinel) {
			return m.message
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, body ErrorResponse) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		body.Code = code
		writeJSON(w, status, body)
		return true
	}
}

// extractionErrorHandler surfaces a parser rejection with the parser's own 4xx
// status and message. Anything else from the extractor is a 502.
func extractionErrorHandler(w http.ResponseWriter, err error, body ErrorResponse) bool {
	if !errors.Is(err, domain.ErrExtractionFailed) {
		return false
	}
	status := http.StatusBadGateway
	var extErr *domain.ExtractionError
	if errors.As(err, &extErr) {
		if extErr.Message != "" {
			body.Error = extErr.Message
		}
		if extErr.Status >= 400 && extErr.Status < 500 {
			status = extErr.Status
		}
	}
	body.Code = ErrorCodeExtractionFailed
	writeJSON(w, status, body)
	return true
}

// handleDomainError writes the response for err. body carries request context
// such as the document ID or filename.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, body ErrorResponse) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	body.Success = false
	body.Error = safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, body) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	body.Error = "internal error"
	body.Code = ErrorCodeInternalError
	writeJSON(w, http.StatusInternalServerError, body)
}
