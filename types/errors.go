/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentity is returned when a converter has no account identity to file history under.
	ErrNoIdentity = errors.New("no account identity configured")
	// ErrUnknownFormat is returned for an unsupported input or output format name.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnknownEncoding is returned when a text encoding label cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown text encoding")
)

// SourceError ties a failure to the source file being read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err with the source path, or returns nil for a nil err
func NewSourceError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Path: path, Err: err}
}
