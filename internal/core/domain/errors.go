package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidThreshold is returned for thresholds outside [0, 100].
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 100")
	// ErrInvalidPrecision is returned for rounding precisions above 15 decimals.
	ErrInvalidPrecision = errors.New("precision must be at most 15 decimals")
	// ErrDimensionMismatch is returned when vectors or names of a batch disagree in size.
	ErrDimensionMismatch = errors.New("feature vectors do not share one dimensionality")
	// ErrDuplicateName is returned when a document name repeats within a batch.
	ErrDuplicateName = errors.New("duplicate document name")
	// ErrUnsupportedFormat is returned for uploads that are not plain text files.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// EncodingError reports a document whose bytes are not valid UTF-8.
type EncodingError struct {
	Name   string
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("document %q: invalid UTF-8 at byte %d", e.Name, e.Offset)
}

// DocumentError ties a per-document failure to the document name.
type DocumentError struct {
	Name string
	Err  error
}

func (e DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e DocumentError) Unwrap() error {
	return e.Err
}

// MarshalJSON encodes the failure as {"name": ..., "error": ...}.
func (e DocumentError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Error string `json:"error"`
	}{Name: e.Name, Error: e.Err.Error()})
}
