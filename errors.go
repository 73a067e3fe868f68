package cdaibatch

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying batch failure conditions. UnsupportedFormat
// and MalformedInput are caller-facing input errors and abort a run before
// any record is processed; CorruptDocument and RenderFailed are attributed
// to the single record (or the template preflight) that raised them.
var (
	ErrUnsupportedFormat = errors.New("cdaibatch: unsupported data file format")
	ErrMalformedInput    = errors.New("cdaibatch: malformed tabular data")
	ErrCorruptDocument   = errors.New("cdaibatch: corrupt document")
	ErrRenderFailed      = errors.New("cdaibatch: text rendering failed")
	ErrEmptyBatch        = errors.New("cdaibatch: empty batch")
)

// Error couples an operation with its classifying sentinel and underlying
// cause. errors.Is matches both Kind and Err, so callers branch on the
// class while logs keep the original failure detail.
type Error struct {
	Op   string // operation description, e.g. "split template.pdf"
	Kind error  // classifying sentinel, e.g. ErrCorruptDocument
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Op, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%v: %s", e.Kind, e.Op)
	case e.Err != nil:
		return fmt.Sprintf("cdaibatch: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cdaibatch: %s", e.Op)
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError creates an Error wrapping the given cause with operation context
// and a classifying sentinel.
func NewError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
