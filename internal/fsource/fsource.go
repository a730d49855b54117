// Package fsource abstracts where file content comes from and where
// corrected content goes.
package fsource

import (
	"errors"
	"fmt"
)

// ErrIO marks read and write failures. Processing of the affected file stops,
// the run continues.
var ErrIO = errors.New("i/o error")

// FileSource reads file content and writes it back atomically.
type FileSource interface {
	Read(path string) ([]byte, error)
	// WriteAtomic replaces the whole file. Readers observe either the old or
	// the new content, never a mix.
	WriteAtomic(path string, content []byte) error
}

// IOError wraps an operation failure on one path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

func ioErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
