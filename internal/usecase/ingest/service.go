package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/domain"
	domdoc "github.com/m3360202/mathTest/internal/domain/document"
	"github.com/m3360202/mathTest/internal/logger"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultMaxFileSize = 50 << 20
	DefaultExtension   = ".docx"
)

// Metadata keys recorded for every uploaded document.
const (
	MetaFilename      = "filename"
	MetaFilesize      = "filesize"
	MetaMIMEType      = "mimetype"
	MetaUploadedAt    = "uploadedAt"
	MetaContentLength = "contentLength"
)

// Config controls upload validation and spooling.
type Config struct {
	MaxFileSize       int64
	TempDir           string // empty means os.TempDir()
	AllowedExtensions []string
}

// Upload is one incoming file.
type Upload struct {
	Filename string
	Size     int64 // as declared by the client; -1 if unknown
	MIMEType string
	Body     io.Reader
}

// Result describes a stored upload.
type Result struct {
	DocumentID string
	Filename   string
	Content    string
	Metadata   domdoc.Metadata
}

// Service turns uploaded files into stored documents.
type Service struct {
	extractor Extractor
	docs      DocumentInserter
	cfg       Config
	now       func() time.Time
}

// New creates an ingest service.
func New(extractor Extractor, docs DocumentInserter, cfg Config) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = []string{DefaultExtension}
	}
	exts := make([]string, len(cfg.AllowedExtensions))
	for i, ext := range cfg.AllowedExtensions {
		exts[i] = strings.ToLower(ext)
	}
	cfg.AllowedExtensions = exts
	return &Service{extractor: extractor, docs: docs, cfg: cfg, now: time.Now}
}

// Ingest validates, spools, extracts and stores one upload. The spooled temp
// file is removed before returning regardless of outcome. Nothing is stored
// when extraction fails.
func (s *Service) Ingest(ctx context.Context, up Upload) (Result, error) {
	if up.Body == nil {
		return Result{}, domain.ErrNoFile
	}
	if err := s.validate(up); err != nil {
		return Result{}, err
	}

	file, err := s.spool(up)
	if err != nil {
		return Result{}, err
	}
	defer s.cleanup(ctx, file.Path)

	ext, err := s.extractor.Extract(ctx, file)
	if err != nil {
		return Result{}, fmt.Errorf("extract %s: %w", up.Filename, err)
	}

	meta := domdoc.Metadata{
		MetaFilename:      up.Filename,
		MetaFilesize:      file.Size,
		MetaMIMEType:      file.MIMEType,
		MetaUploadedAt:    s.now().UTC().Format(domdoc.TimestampLayout),
		MetaContentLength: utf8.RuneCountInString(ext.Content),
	}

	doc, err := s.docs.Insert(ctx, ext.Content, meta)
	if err != nil {
		return Result{}, fmt.Errorf("store %s: %w", up.Filename, err)
	}

	logger.FromContext(ctx).Info("Document ingested",
		zap.String("document_id", doc.ID()),
		zap.String("file", up.Filename),
		zap.Int64("size", file.Size),
		zap.String("source", ext.Source),
	)

	return Result{
		DocumentID: doc.ID(),
		Filename:   up.Filename,
		Content:    ext.Content,
		Metadata:   meta,
	}, nil
}

func (s *Service) validate(up Upload) error {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if !slices.Contains(s.cfg.AllowedExtensions, ext) {
		return fmt.Errorf("%q (allowed: %s): %w",
			up.Filename, strings.Join(s.cfg.AllowedExtensions, ", "), domain.ErrUnsupportedFile)
	}
	if up.Size > s.cfg.MaxFileSize {
		return fmt.Errorf("%d bytes exceeds %d: %w", up.Size, s.cfg.MaxFileSize, domain.ErrFileTooLarge)
	}
	return nil
}

// spool copies the body to a temp file, enforcing the size limit on the bytes
// actually read.
func (s *Service) spool(up Upload) (domain.SpooledFile, error) {
	f, err := os.CreateTemp(s.cfg.TempDir, "upload-*"+filepath.Ext(up.Filename))
	if err != nil {
		return domain.SpooledFile{}, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(up.Body, s.cfg.MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.cfg.MaxFileSize {
		err = fmt.Errorf("upload exceeds %d bytes: %w", s.cfg.MaxFileSize, domain.ErrFileTooLarge)
	}
	if err != nil {
		_ = os.Remove(f.Name())
		if errors.Is(err, domain.ErrFileTooLarge) {
			return domain.SpooledFile{}, err
		}
		return domain.SpooledFile{}, fmt.Errorf("spool upload: %w", err)
	}

	mime := up.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return domain.SpooledFile{Name: up.Filename, Path: f.Name(), Size: n, MIMEType: mime}, nil
}

func (s *Service) cleanup(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Warn("Failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}
