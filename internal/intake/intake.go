// Package intake validates profile submissions before anything is sent to
// the counselor backend. All checks run locally; a violation blocks the
// submission with a field-level error and no network call is made.
package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel errors for intake validation.
var (
	ErrResumeRequired      = errors.New("resume file is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrMessageTooShort     = errors.New("initial message too short")
)

// MinMessageTokens is the minimum number of whitespace-separated tokens
// required in the free-text message.
const MinMessageTokens = 20

// Allowed resume file extensions.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

// Submission is a fully validated profile submission ready for upload.
type Submission struct {
	ResumeFilename  string
	Resume          []byte
	GithubProfile   json.RawMessage
	LinkedinProfile json.RawMessage
	AcademicStatus  json.RawMessage
	InitialMessage  string
}

// ValidateResume checks the resume file constraints: a file must be
// present, at most maxBytes large, with a .pdf, .doc or .docx extension.
func ValidateResume(filename string, size int64, maxBytes int64) error {
	if filename == "" || size == 0 {
		return ErrResumeRequired
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	if size > maxBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, maxBytes)
	}
	return nil
}

// ValidateMessage checks that the free-text message carries at least
// MinMessageTokens whitespace-separated tokens.
func ValidateMessage(msg string) error {
	if len(strings.Fields(msg)) < MinMessageTokens {
		return fmt.Errorf("%w: need at least %d words", ErrMessageTooShort, MinMessageTokens)
	}
	return nil
}

// ValidateOptionalJSON checks that an optional profile blob, when present,
// is syntactically valid JSON. Empty input is fine.
func ValidateOptionalJSON(field string, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if !json.Valid([]byte(raw)) {
		return fmt.Errorf("field %s is not valid JSON", field)
	}
	return nil
}
