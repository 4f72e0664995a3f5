// Package ragerr holds the error taxonomy shared across the pipeline.
// Stages never catch and hide each other's failures - these values travel
// untouched to the handlers, which decide the transport-level presentation.
package ragerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput - bad query/top_k/file_ids. Caller error, not retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - index or metadata file missing, usually means "ingest first".
	ErrNotFound = errors.New("index not found")

	// ErrEmptyContent - the document had no extractable text. An ingestion
	// must fail loudly rather than build a vacuous index.
	ErrEmptyContent = errors.New("empty or no text extracted from document")
)

// BuildError is an embedding or index-construction failure at ingestion time.
// The caller may retry the whole build.
type BuildError struct {
	Stage string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("index build failed at %s: %v", e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

type BackendKind string

const (
	BackendUpstream BackendKind = "upstream"
	BackendTimeout  BackendKind = "timeout"
)

// BackendError carries the upstream status and message of a failed generation
// call. Generation is the most failure-prone external call, so callers always
// receive this as a typed value, never a crash or a swallowed generic message.
type BackendError struct {
	Kind    BackendKind
	Status  int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generation backend failed (%s, status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("generation backend failed (%s): %s", e.Kind, e.Message)
}

func (e *BackendError) Unwrap() error { return e.Err }

func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	ok := errors.As(err, &be)
	return be, ok
}

func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	ok := errors.As(err, &be)
	return be, ok
}
