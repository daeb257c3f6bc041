package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrAlreadyExists signals a duplicate document ID.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuery signals a missing or malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNoFile signals an upload request without a file part.
	ErrNoFile = errors.New("no file uploaded")
	// ErrUnsupportedFile signals a file type the extractor does not accept.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrFileTooLarge signals an upload over the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrExtractionFailed signals that the text extraction collaborator reported a failure.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrParserUnavailable signals that the parser service could not be reached.
	ErrParserUnavailable = errors.New("parser service unavailable")
)

// ExtractionError wraps ErrExtractionFailed with the parser's own status and message.
type ExtractionError struct {
	Status  int // HTTP status reported by the parser, 0 if none
	Message string
}

func (e *ExtractionError) Error() string {
	if e.Message == "" {
		return ErrExtractionFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrExtractionFailed.Error(), e.Message)
}

func (e *ExtractionError) Unwrap() error { return ErrExtractionFailed }

// NewExtractionError creates an extraction error with the parser's status and message.
func NewExtractionError(status int, message string) error {
	return &ExtractionError{Status: status, Message: message}
}
