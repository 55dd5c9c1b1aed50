// Package service implements the stateless HTTP facade use cases on top of
// the repositories. It never touches the live content view.
package service

import "errors"

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("resource not found")
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrInvalidStatus = errors.New("invalid status")
	ErrReaderNil     = errors.New("reader is nil")
	ErrInvalidKind   = errors.New("invalid upload kind")
	ErrUnsupported   = errors.New("unsupported content type")
)
