package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/m3360202/mathTest/internal/domain"
)

// SourceParser marks text produced by the remote parser service.
const SourceParser = "parser"

const (
	docxMIMEType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	maxErrorBodySize = 64 << 10
)

// HTTPDoer describes the HTTP client used to reach the parser service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the parser service settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables rate limiting
	Burst             int
	HTTPClient        HTTPDoer
	Logger            *zap.Logger
}

// Client extracts text from .docx files via the parser microservice.
type Client struct {
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	http    HTTPDoer
	logger  *zap.Logger
}

// parseResponse mirrors the parser's POST /parse-docx body.
type parseResponse struct {
	Success         bool           `json:"success"`
	Filename        string         `json:"filename"`
	Content         string         `json:"content"`
	ContentLength   int            `json:"content_length"`
	ParsingMetadata map[string]any `json:"parsing_metadata"`
	Error           string         `json:"error"`
	Detail          string         `json:"detail"`
}

// New creates a parser client.
func New(cfg *Config) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// Extract implements domain.Extractor by uploading the spooled file as multipart field "file".
func (c *Client) Extract(ctx context.Context, file domain.SpooledFile) (domain.Extraction, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.Extraction{}, fmt.Errorf("rate limit wait: %w: %w", domain.ErrParserUnavailable, err)
		}
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("open spooled file: %w", err)
	}
	defer f.Close()

	body, contentType := multipartBody(f, file.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse-docx", body)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("build parse request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("parse %s: %w: %w", file.Name, domain.ErrParserUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Extraction{}, statusError(resp)
	}

	var pr parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return domain.Extraction{}, domain.NewExtractionError(resp.StatusCode, "invalid parser response: "+err.Error())
	}
	if !pr.Success {
		msg := firstNonEmpty(pr.Error, pr.Detail, "Python service parsing failed")
		return domain.Extraction{}, domain.NewExtractionError(0, msg)
	}

	c.logger.Debug("Parser extraction completed",
		zap.String("file", file.Name),
		zap.Int("content_length", pr.ContentLength),
	)

	return domain.Extraction{
		Content:  pr.Content,
		Metadata: pr.ParsingMetadata,
		Source:   SourceParser,
	}, nil
}

// HealthCheck verifies the parser answers GET /health with a 2xx status.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("parser health: %w: %w", domain.ErrParserUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("parser health returned %d: %w", resp.StatusCode, domain.ErrParserUnavailable)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody streams r as a multipart form without buffering the whole file.
func multipartBody(r io.Reader, filename string) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
		h.Set("Content-Type", docxMIMEType)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

// statusError converts a non-2xx parser response into an ExtractionError,
// preferring the FastAPI "detail" field, then "error".
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	msg := ""
	if json.Unmarshal(data, &body) == nil {
		msg = firstNonEmpty(detailString(body.Detail), body.Error)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return domain.NewExtractionError(resp.StatusCode, msg)
}

// detailString handles FastAPI's detail, which is a string for HTTPException
// and a list of objects for validation errors.
func detailString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
