package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Corpus errors
	ErrNotInitialized    = errors.New("rag client not initialized")
	ErrCorpusResolution  = errors.New("corpus resolution failed")
	ErrRegionRestricted  = errors.New("region is restricted")
	ErrCorpusNotFound    = errors.New("corpus not found")
	ErrModelNotAvailable = errors.New("model not available")

	// Ingestion errors
	ErrUnsupportedFormat = errors.New("only .csv files are supported")
	ErrFormat            = errors.New("failed to read CSV")
	ErrFileTooLarge      = errors.New("file too large")

	// Report errors
	ErrMalformedReportJSON = errors.New("invalid JSON from LLM")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ReportParseError carries the decoder failure together with a preview of the text that failed.
type ReportParseError struct {
	Err     error
	Preview string
}

func (e *ReportParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedReportJSON.Error(), e.Err)
}

func (e *ReportParseError) Unwrap() error {
	return e.Err
}

func (e *ReportParseError) Is(target error) bool {
	return target == ErrMalformedReportJSON
}
