package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	uploadField  = "docxFile"
	docxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Upload streams r to the server as a .docx file named filename.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	body, contentType := multipartBody(r, filename)

	var resp struct {
		Data UploadResult `json:"data"`
	}
	err := c.do(ctx, call{
		op:          "upload",
		method:      http.MethodPost,
		path:        "/upload",
		body:        body,
		contentType: contentType,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UploadFile uploads the file at path under its base name.
func (c *Client) UploadFile(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer f.Close()
	return c.Upload(ctx, filepath.Base(path), f)
}

// ListDocuments returns documents in insertion order. limit <= 0 returns all.
func (c *Client) ListDocuments(ctx context.Context, limit int) (*DocumentList, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out DocumentList
	err := c.do(ctx, call{op: "list_documents", method: http.MethodGet, path: "/documents", query: q}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocument fetches one document. A missing ID matches ErrNotFound.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var resp struct {
		Document Document `json:"document"`
	}
	err := c.do(ctx, call{
		op:     "get_document",
		method: http.MethodGet,
		path:   "/documents/" + url.PathEscape(id),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

// Stats returns store-wide statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var resp struct {
		Statistics Stats `json:"statistics"`
	}
	if err := c.do(ctx, call{op: "stats", method: http.MethodGet, path: "/database/stats"}, &resp); err != nil {
		return nil, err
	}
	return &resp.Statistics, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody streams r as a multipart form without buffering the whole file.
func multipartBody(r io.Reader, filename string) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadField, quoteEscaper.Replace(filename)))
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
